package hcl

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/fpgasweep/internal/options"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// setsFromExpr converts a list of option maps. A literal tuple keeps the
// source order of every map; other expressions (e.g. local.x) are evaluated
// and their object keys come out sorted.
func setsFromExpr(expr hcl.Expression, evalCtx *hcl.EvalContext) ([]options.Set, error) {
	if elems, diags := hcl.ExprList(expr); !diags.HasErrors() {
		sets := make([]options.Set, 0, len(elems))
		for _, elem := range elems {
			s, err := setFromExpr(elem, evalCtx)
			if err != nil {
				return nil, err
			}
			sets = append(sets, s)
		}
		return sets, nil
	}

	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, diags
	}
	if !val.IsKnown() || val.IsNull() || !(val.Type().IsTupleType() || val.Type().IsListType()) {
		return nil, fmt.Errorf("%s: expected a list of option maps, got %s", expr.Range(), val.Type().FriendlyName())
	}
	var sets []options.Set
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		s, err := setFromValue(elem, expr.Range())
		if err != nil {
			return nil, err
		}
		sets = append(sets, s)
	}
	return sets, nil
}

// setFromExpr converts one option map, preserving key order when the map is
// written as a literal.
func setFromExpr(expr hcl.Expression, evalCtx *hcl.EvalContext) (options.Set, error) {
	pairs, diags := hcl.ExprMap(expr)
	if diags.HasErrors() {
		val, diags := expr.Value(evalCtx)
		if diags.HasErrors() {
			return options.Set{}, diags
		}
		return setFromValue(val, expr.Range())
	}

	var set options.Set
	for _, pair := range pairs {
		keyVal, diags := pair.Key.Value(evalCtx)
		if diags.HasErrors() {
			return options.Set{}, diags
		}
		if keyVal.Type() != cty.String || !keyVal.IsKnown() || keyVal.IsNull() {
			return options.Set{}, fmt.Errorf("%s: option name must be a string", pair.Key.Range())
		}
		val, diags := pair.Value.Value(evalCtx)
		if diags.HasErrors() {
			return options.Set{}, diags
		}
		if err := putCty(&set, keyVal.AsString(), val); err != nil {
			return options.Set{}, fmt.Errorf("%s: %w", pair.Key.Range(), err)
		}
	}
	return set, nil
}

// setFromValue converts an evaluated object or map. Its keys are visited in
// sorted order.
func setFromValue(val cty.Value, rng hcl.Range) (options.Set, error) {
	ty := val.Type()
	if !val.IsKnown() || val.IsNull() || !(ty.IsObjectType() || ty.IsMapType()) {
		return options.Set{}, fmt.Errorf("%s: expected an option map, got %s", rng, ty.FriendlyName())
	}
	attrs := val.AsValueMap()
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	var set options.Set
	for _, name := range names {
		if err := putCty(&set, name, attrs[name]); err != nil {
			return options.Set{}, fmt.Errorf("%s: %w", rng, err)
		}
	}
	return set, nil
}

// putCty converts val to the type the option expects and stores it.
func putCty(set *options.Set, name string, val cty.Value) error {
	key, err := options.ParseKey(name)
	if err != nil {
		return err
	}
	if !val.IsWhollyKnown() || val.IsNull() {
		return fmt.Errorf("option %s must have a known, non-null value", name)
	}

	switch key.Type() {
	case options.TypeInt:
		num, err := convert.Convert(val, cty.Number)
		if err != nil {
			return fmt.Errorf("%w: %s expects a number: %s", options.ErrValueType, name, err)
		}
		bf := num.AsBigFloat()
		if !bf.IsInt() {
			return fmt.Errorf("%w: %s expects an integer, got %s", options.ErrValueType, name, bf.String())
		}
		i, acc := bf.Int64()
		if acc != big.Exact {
			return fmt.Errorf("%w: %s is out of range", options.ErrValueType, name)
		}
		return set.Put(key, options.Int(i))
	default:
		str, err := convert.Convert(val, cty.String)
		if err != nil {
			return fmt.Errorf("%w: %s expects a string: %s", options.ErrValueType, name, err)
		}
		return set.Put(key, options.String(str.AsString()))
	}
}
