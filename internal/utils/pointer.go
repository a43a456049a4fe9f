package utils

// Ptr returns a pointer to v.
//
//	req := paginate.Request{TargetCount: 20, PageSizeCap: 20, MaxOffset: utils.Ptr(9)}
func Ptr[T any](v T) *T {
	return &v
}
