package models

import "fmt"

// SourceFormat names a raw export layout. Each value maps to exactly one parser
// in the factory registry.
type SourceFormat string

const (
	FormatCSX       SourceFormat = "csx"
	FormatWiseJPY   SourceFormat = "wisejpy"
	FormatWiseCHF   SourceFormat = "wisechf"
	FormatWiseEUR   SourceFormat = "wiseeur"
	FormatWiseGBP   SourceFormat = "wisegbp"
	FormatRevolut   SourceFormat = "revolut"
	FormatVisaDebit SourceFormat = "visadebit"
)

var sourceFormatTable = []SourceFormat{
	FormatCSX,
	FormatWiseJPY,
	FormatWiseCHF,
	FormatWiseEUR,
	FormatWiseGBP,
	FormatRevolut,
	FormatVisaDebit,
}

// SourceFormats returns every known format.
func SourceFormats() []SourceFormat {
	return append([]SourceFormat(nil), sourceFormatTable...)
}

// ParseSourceFormat resolves a format code such as "wisechf".
func ParseSourceFormat(s string) (SourceFormat, error) {
	f := SourceFormat(s)
	if !f.IsValid() {
		return "", fmt.Errorf("unknown source format %q", s)
	}
	return f, nil
}

// IsValid reports whether f is a known format.
func (f SourceFormat) IsValid() bool {
	for _, known := range sourceFormatTable {
		if known == f {
			return true
		}
	}
	return false
}

func (f SourceFormat) String() string {
	return string(f)
}
