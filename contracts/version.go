package contracts

import (
	"fmt"
	"strconv"
	"strings"
)

const DevStatusRelease = ""

// Version is an immutable, totally ordered release number such as "1.4.2"
// or "1.4.2-b102". The zero value is the empty version, which sorts below
// every parsed version.
type Version struct {
	numbers []int
	status  string
}

func NewVersion(numbers ...int) Version {
	return NewDevVersion(DevStatusRelease, numbers...)
}

func NewDevVersion(status string, numbers ...int) Version {
	copied := make([]int, len(numbers))
	copy(copied, numbers)
	return Version{numbers: copied, status: status}
}

// ParseVersion reads "N(.N)*" optionally followed by "-" and a development
// status. Components are decimal and may carry leading zeros, which String
// drops: "01.2" parses, compares equal to "1.2" and prints as "1.2".
func ParseVersion(text string) (Version, error) {
	numeric, status, tagged := strings.Cut(text, "-")
	if tagged && status == "" {
		return Version{}, fmt.Errorf("%w: empty development status in version %q", ErrFormat, text)
	}
	if numeric == "" {
		return Version{}, fmt.Errorf("%w: empty version %q", ErrFormat, text)
	}

	pieces := strings.Split(numeric, ".")
	numbers := make([]int, len(pieces))
	for i, piece := range pieces {
		if !isDigits(piece) {
			return Version{}, fmt.Errorf("%w: component %q of version %q is not a number", ErrFormat, piece, text)
		}
		number, err := strconv.Atoi(piece)
		if err != nil {
			return Version{}, fmt.Errorf("%w: component %q of version %q: %v", ErrFormat, piece, text, err)
		}
		numbers[i] = number
	}
	return Version{numbers: numbers, status: status}, nil
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, character := range value {
		if character < '0' || character > '9' {
			return false
		}
	}
	return true
}

func (this Version) Len() int           { return len(this.numbers) }
func (this Version) At(index int) int   { return this.numbers[index] }
func (this Version) Status() string     { return this.status }
func (this Version) IsDevRelease() bool { return this.status != DevStatusRelease }

// Compare returns -1, 0 or +1. Numbers are compared component by component;
// when one sequence is a prefix of the other the longer one is greater; a
// release outranks a development build of the same numbers.
func (this Version) Compare(that Version) int {
	for i := 0; i < len(this.numbers) && i < len(that.numbers); i++ {
		if this.numbers[i] < that.numbers[i] {
			return -1
		}
		if this.numbers[i] > that.numbers[i] {
			return 1
		}
	}
	if len(this.numbers) != len(that.numbers) {
		if len(this.numbers) < len(that.numbers) {
			return -1
		}
		return 1
	}
	if this.IsDevRelease() != that.IsDevRelease() {
		if this.IsDevRelease() {
			return -1
		}
		return 1
	}
	return strings.Compare(this.status, that.status)
}

func (this Version) IsGreaterThan(that Version) bool { return this.Compare(that) > 0 }
func (this Version) Equal(that Version) bool         { return this.Compare(that) == 0 }

func (this Version) String() string {
	builder := new(strings.Builder)
	for i, number := range this.numbers {
		if i > 0 {
			builder.WriteByte('.')
		}
		builder.WriteString(strconv.Itoa(number))
	}
	if this.IsDevRelease() {
		builder.WriteByte('-')
		builder.WriteString(this.status)
	}
	return builder.String()
}

func (this Version) MarshalText() ([]byte, error) {
	return []byte(this.String()), nil
}

func (this *Version) UnmarshalText(raw []byte) error {
	parsed, err := ParseVersion(string(raw))
	if err != nil {
		return err
	}
	*this = parsed
	return nil
}
