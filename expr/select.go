package expr

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/scalar"
)

// selectFields projects a subset of a struct's fields, either by explicit
// inclusion or exclusion. Grounded directly on vortex-expr's
// select.rs (Select { fields: SelectField, child }).
type selectFields struct {
	fields  []string
	exclude bool
	child   Expr
}

// Select projects fields, in the order given by fields, out of child's
// struct evaluation.
func Select(fields []string, child Expr) Expr {
	return selectFields{fields: fields, child: child}
}

// SelectExclude projects every field of child's struct evaluation except
// the named ones.
func SelectExclude(fields []string, child Expr) Expr {
	return selectFields{fields: fields, exclude: true, child: child}
}

func (s selectFields) projectedNames(declared []scalar.Field) []string {
	if !s.exclude {
		return s.fields
	}
	excluded := make(map[string]struct{}, len(s.fields))
	for _, f := range s.fields {
		excluded[f] = struct{}{}
	}
	var names []string
	for _, f := range declared {
		if _, skip := excluded[f.Name]; !skip {
			names = append(names, f.Name)
		}
	}
	return names
}

func (s selectFields) Evaluate(scope array.Array) (array.Array, error) {
	evaluated, err := s.child.Evaluate(scope)
	if err != nil {
		return nil, err
	}
	st, ok := evaluated.(*array.StructArray)
	if !ok {
		canon, err := evaluated.ToCanonical()
		if err != nil {
			return nil, err
		}
		st, ok = canon.(*array.StructArray)
		if !ok {
			return nil, colvexerr.New(colvexerr.MismatchedTypes, "select: child did not evaluate to a struct")
		}
	}

	names := s.projectedNames(st.DType().Fields())
	fields := make([]array.Array, len(names))
	declFields := make([]scalar.Field, len(names))
	for i, name := range names {
		field, ok := st.FieldByName(name)
		if !ok {
			return nil, colvexerr.New(colvexerr.InvalidInput, "select: no field %q in struct", name)
		}
		fields[i] = field
		declFields[i] = scalar.Field{Name: name, DType: field.DType()}
	}

	dtype := scalar.Struct(declFields, st.DType().IsNullable())
	return array.NewStruct(dtype, fields, validityOf(st))
}

func validityOf(st *array.StructArray) array.Validity {
	return array.FromMask(st.ValidityMask())
}

func (s selectFields) ReturnDType(scopeDType scalar.DType) (scalar.DType, error) {
	childDType, err := s.child.ReturnDType(scopeDType)
	if err != nil {
		return scalar.DType{}, err
	}
	if _, err := requireStruct(childDType, "select"); err != nil {
		return scalar.DType{}, err
	}
	names := s.projectedNames(childDType.Fields())
	fields := make([]scalar.Field, len(names))
	for i, name := range names {
		fieldDType, ok := childDType.FieldByName(name)
		if !ok {
			return scalar.DType{}, colvexerr.New(colvexerr.InvalidInput, "select: no field %q in struct dtype", name)
		}
		fields[i] = scalar.Field{Name: name, DType: fieldDType}
	}
	return scalar.Struct(fields, childDType.IsNullable()), nil
}

func (s selectFields) Children() []Expr { return []Expr{s.child} }

func (s selectFields) ReplacingChildren(children []Expr) Expr {
	if len(children) != 1 {
		panic("expr: Select takes exactly one child")
	}
	return selectFields{fields: s.fields, exclude: s.exclude, child: children[0]}
}

func (s selectFields) String() string {
	prefix := "{"
	if s.exclude {
		prefix = "~{"
	}
	out := s.child.String() + prefix
	for i, f := range s.fields {
		if i > 0 {
			out += ","
		}
		out += f
	}
	return out + "}"
}

// AsSelect decomposes e into its field list, exclude flag, and child if
// it is a Select/SelectExclude node.
func AsSelect(e Expr) (fields []string, exclude bool, child Expr, ok bool) {
	s, ok := e.(selectFields)
	if !ok {
		return nil, false, nil, false
	}
	return s.fields, s.exclude, s.child, true
}
