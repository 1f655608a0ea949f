package exam

import "fmt"

// Eye is the laterality a report was printed for
type Eye string

const (
	EyeLeft  Eye = "left"
	EyeRight Eye = "right"
)

// Valid reports whether e is one of the two known sides
func (e Eye) Valid() bool {
	return e == EyeLeft || e == EyeRight
}

// ParseLaterality resolves the OS/OD code at the start of line
func ParseLaterality(line string) (Eye, error) {
	code := line
	if len(code) > 2 {
		code = code[:2]
	}
	switch code {
	case "OS":
		return EyeLeft, nil
	case "OD":
		return EyeRight, nil
	default:
		return "", NewStructureError("eye", LineLaterality, ErrUnknownLaterality, fmt.Sprintf("found %q", code))
	}
}
