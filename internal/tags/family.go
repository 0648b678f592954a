package tags

import "fmt"

// Family identifies the tag coding family the detector is loaded with.
// The family is resolved once at startup; the decoding tables
// themselves live in the external detector library.
type Family string

const (
	Family16h5  Family = "16h5"
	Family25h7  Family = "25h7"
	Family25h9  Family = "25h9"
	Family36h9  Family = "36h9"
	Family36h11 Family = "36h11"
)

// DefaultFamily matches the detector's usual shipping configuration.
const DefaultFamily = Family36h11

// ParseFamily maps a family name from config or flags to a Family.
func ParseFamily(s string) (Family, error) {
	switch Family(s) {
	case Family16h5, Family25h7, Family25h9, Family36h9, Family36h11:
		return Family(s), nil
	}
	return "", fmt.Errorf("unknown tag family %q", s)
}
