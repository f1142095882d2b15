package common

// UnknownStr is the String() value of enum values outside their declared range.
const UnknownStr = "unknown"

// UpperFirst returns s with its first byte upper-cased when it is an ASCII letter.
func UpperFirst(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}

	return string(s[0]-'a'+'A') + s[1:]
}

// LowerFirst returns s with its first byte lower-cased when it is an ASCII letter.
func LowerFirst(s string) string {
	if s == "" || s[0] < 'A' || s[0] > 'Z' {
		return s
	}

	return string(s[0]-'A'+'a') + s[1:]
}
