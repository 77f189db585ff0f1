package contracts

import (
	"encoding/json"
	"errors"
	"sort"
	"testing"

	"github.com/smartystreets/assertions/should"
	"github.com/smartystreets/gunit"
)

func TestVersionFixture(t *testing.T) {
	gunit.Run(new(VersionFixture), t)
}

type VersionFixture struct {
	*gunit.Fixture
}

func (this *VersionFixture) parse(text string) Version {
	version, err := ParseVersion(text)
	this.So(err, should.BeNil)
	return version
}

func (this *VersionFixture) TestParseSingle() {
	version := this.parse("3")

	this.So(version.Len(), should.Equal, 1)
	this.So(version.At(0), should.Equal, 3)
	this.So(version.IsDevRelease(), should.BeFalse)
}

func (this *VersionFixture) TestParseMultiple() {
	version := this.parse("1.2.3")

	this.So(version.Len(), should.Equal, 3)
	this.So(version.At(0), should.Equal, 1)
	this.So(version.At(1), should.Equal, 2)
	this.So(version.At(2), should.Equal, 3)
	this.So(version.IsDevRelease(), should.BeFalse)
}

func (this *VersionFixture) TestParseDevStatus() {
	version := this.parse("1.2-dev")

	this.So(version.IsDevRelease(), should.BeTrue)
	this.So(version.Status(), should.Equal, "dev")
	this.So(version, should.Resemble, NewDevVersion("dev", 1, 2))
}

func (this *VersionFixture) TestRoundTrip() {
	for _, text := range []string{"3", "1.2", "1.2.3", "1.2-dev", "1.4.2-b102", "10.0.0.1", "0", "2.0-rc.1"} {
		this.So(this.parse(text).String(), should.Equal, text)
	}
}

func (this *VersionFixture) TestLeadingZerosParseToCanonicalForm() {
	version := this.parse("01.002-b7")

	this.So(version.String(), should.Equal, "1.2-b7")
	this.So(version.Compare(this.parse("1.2-b7")), should.Equal, 0)
	this.So(this.parse(version.String()).String(), should.Equal, "1.2-b7")
}

func (this *VersionFixture) TestMalformedVersionsAreFormatErrors() {
	for _, text := range []string{"", "a", "1.a", "1..2", ".1", "1.", "1.2-", "-dev", "1.-2", "1.+2", "1.2 "} {
		_, err := ParseVersion(text)
		this.So(errors.Is(err, ErrFormat), should.BeTrue)
	}
}

func (this *VersionFixture) TestGreaterThanMajor() {
	this.assertGreater("2.1", "1.2")
}

func (this *VersionFixture) TestGreaterThanMinor() {
	this.assertGreater("1.3", "1.2")
}

func (this *VersionFixture) TestLongerVersionWithGreaterPrefixWins() {
	this.assertGreater("1.4.2", "1.3")
}

func (this *VersionFixture) TestLongerVersionWithEqualPrefixWins() {
	this.assertGreater("1.3.0", "1.3")
}

func (this *VersionFixture) TestReleaseOutranksDevVersion() {
	this.assertGreater("1.4.2", "1.4.2-b102")
}

func (this *VersionFixture) TestDevVersionsCompareByStatusText() {
	this.assertGreater("1.4.2-b103", "1.4.2-b102")
}

func (this *VersionFixture) TestEqualVersions() {
	this.So(this.parse("1.2-dev").Equal(this.parse("1.2-dev")), should.BeTrue)
	this.So(this.parse("1.2").Compare(this.parse("1.2")), should.Equal, 0)
}

func (this *VersionFixture) TestOrderingIsTotal() {
	texts := []string{"2", "1.4.2", "1.4.2-b103", "1.3", "1.4.2-b102", "1.3.0", "0.9", "1.4"}
	versions := make([]Version, len(texts))
	for i, text := range texts {
		versions[i] = this.parse(text)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i].Compare(versions[j]) < 0 })

	var sorted []string
	for _, version := range versions {
		sorted = append(sorted, version.String())
	}
	this.So(sorted, should.Resemble, []string{"0.9", "1.3", "1.3.0", "1.4", "1.4.2-b102", "1.4.2-b103", "1.4.2", "2"})

	for _, a := range versions {
		for _, b := range versions {
			this.So(a.Compare(b), should.Equal, -b.Compare(a))
		}
	}
}

func (this *VersionFixture) TestConstructorCopiesNumbers() {
	numbers := []int{1, 2, 3}
	version := NewVersion(numbers...)
	numbers[0] = 9

	this.So(version.String(), should.Equal, "1.2.3")
}

func (this *VersionFixture) TestJSON() {
	var decoded struct {
		Number Version `json:"number"`
	}
	err := json.Unmarshal([]byte(`{"number": "1.4.2-b102"}`), &decoded)
	this.So(err, should.BeNil)
	this.So(decoded.Number.String(), should.Equal, "1.4.2-b102")

	raw, err := json.Marshal(decoded)
	this.So(err, should.BeNil)
	this.So(string(raw), should.Equal, `{"number":"1.4.2-b102"}`)
}

func (this *VersionFixture) TestJSONMalformedVersion() {
	var decoded struct {
		Number Version `json:"number"`
	}
	err := json.Unmarshal([]byte(`{"number": "one"}`), &decoded)
	this.So(errors.Is(err, ErrFormat), should.BeTrue)
}

func (this *VersionFixture) assertGreater(greater, lesser string) {
	a, b := this.parse(greater), this.parse(lesser)
	this.So(a.IsGreaterThan(b), should.BeTrue)
	this.So(b.IsGreaterThan(a), should.BeFalse)
	this.So(a.Compare(b), should.Equal, 1)
	this.So(b.Compare(a), should.Equal, -1)
}
