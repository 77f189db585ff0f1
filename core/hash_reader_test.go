package core

import (
	"crypto/md5"
	"crypto/sha1"
	"io"
	"strings"
	"testing"

	"github.com/smartystreets/assertions/should"
	"github.com/smartystreets/gunit"
)

func TestHashReaderFixture(t *testing.T) {
	gunit.Run(new(HashReaderFixture), t)
}

type HashReaderFixture struct {
	*gunit.Fixture
}

func (this *HashReaderFixture) TestEveryHashSeesTheWholeStream() {
	stuff := strings.Repeat("Hello, World!", 1024)
	expectedMD5 := md5.Sum([]byte(stuff))
	expectedSHA1 := sha1.Sum([]byte(stuff))
	md5Hash, sha1Hash := md5.New(), sha1.New()

	raw, _ := io.ReadAll(NewHashReader(strings.NewReader(stuff), md5Hash, sha1Hash))

	this.So(string(raw), should.Equal, stuff)
	this.So(md5Hash.Sum(nil), should.Resemble, expectedMD5[:])
	this.So(sha1Hash.Sum(nil), should.Resemble, expectedSHA1[:])
}
