package testutil

// MaxFuzzBytes caps fuzz inputs so a single case stays fast.
const MaxFuzzBytes = 2048

func ClampBytes(data []byte, limit int) []byte {
	if len(data) > limit {
		return data[:limit]
	}
	return data
}

func ClampString(data string, limit int) string {
	if len(data) > limit {
		return data[:limit]
	}
	return data
}
