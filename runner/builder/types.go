package builder

// SizeOfType returns the size in bytes of a data type
func SizeOfType(dt DataType) int64 {
	switch dt {
	case Float32, INT32:
		return 4
	default:
		return 8
	}
}

// TypeName returns the C type name for a given DataType
func TypeName(dt DataType, isReal bool) string {
	if isReal {
		if dt == Float32 {
			return "float"
		}
		return "double"
	}
	if dt == INT32 {
		return "int"
	}
	return "long"
}

// TypeSuffix returns the numeric suffix for floating point literals
func TypeSuffix(dt DataType) string {
	if dt == Float32 {
		return "f"
	}
	return ""
}
