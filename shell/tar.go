package shell

import "github.com/mholt/archiver"

// TarGzArchiver bundles files into a gzip-compressed tarball. Entries are
// named by base name; the destination's directory is created when missing.
type TarGzArchiver struct{}

func NewTarGzArchiver() *TarGzArchiver {
	return &TarGzArchiver{}
}

func (this *TarGzArchiver) Archive(sources []string, destination string) error {
	return archiver.NewTarGz().Archive(sources, destination)
}
