// Package omitnilpointers prepares partial updates: nil pointers mean
// "leave the field alone" and are dropped, the rest are dereferenced.
package omitnilpointers

import "reflect"

// OmitNilPointers returns a copy of fields without nil values. Pointer values
// are replaced by what they point to so the result can go straight to HSET.
func OmitNilPointers(fields map[string]any) map[string]any {
	omitted := make(map[string]any, len(fields))
	for key, value := range fields {
		if value == nil {
			continue
		}

		v := reflect.ValueOf(value)
		if v.Kind() != reflect.Pointer {
			omitted[key] = value
			continue
		}

		if v.IsNil() {
			continue
		}
		omitted[key] = v.Elem().Interface()
	}

	return omitted
}
