package array

import "github.com/colvex/colvex/scalar"

// ExtensionArray is the canonical extension encoding (spec §3.3): a
// domain-specific DType (Date/Time/Timestamp, spec §2.4) layered over a
// storage array of the declared StorageType. Validity and length are
// inherited from the storage array; ScalarAt delegates to it and retags
// the result with the extension DType.
type ExtensionArray struct {
	baseArray
	storage Array
}

func NewExtension(dtype scalar.DType, storage Array) *ExtensionArray {
	return &ExtensionArray{
		baseArray: newBase(dtype, FromMask(storage.ValidityMask())),
		storage:   storage,
	}
}

func (a *ExtensionArray) Encoding() EncodingID { return EncodingExtension }

func (a *ExtensionArray) Storage() Array { return a.storage }

func (a *ExtensionArray) ScalarAt(i int) (scalar.Scalar, error) {
	s, err := a.storage.ScalarAt(i)
	if err != nil {
		return scalar.Scalar{}, err
	}
	if s.IsNull() {
		return scalar.Null(a.dtype), nil
	}
	return scalar.New(a.dtype, s.Value())
}

func (a *ExtensionArray) Slice(start, stop int) (Array, error) {
	sliced, err := a.storage.Slice(start, stop)
	if err != nil {
		return nil, err
	}
	return NewExtension(a.dtype, sliced), nil
}

func (a *ExtensionArray) ToCanonical() (Array, error) { return a, nil }

var _ Array = (*ExtensionArray)(nil)
