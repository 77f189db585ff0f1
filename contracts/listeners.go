package contracts

// ProgressListener receives download and verification progress. Calls may
// arrive from several goroutines at once.
type ProgressListener interface {
	StartingDownload(numberOfFiles int, totalSize MemoryUnit)
	DownloadedSome(amount MemoryUnit)
	CompletedADownload(size MemoryUnit)
	StartingVerify(numberOfFiles int)
	CompletedAVerify()
}

type StatusListener interface {
	Checking()
	FoundLatest(latest Version)
	ErrorChecking(err error)
	Downloading() ProgressListener
	Launching()
	Finished()
}

type UpdateResponse int

const (
	Update UpdateResponse = iota
	Launch
)

type LaunchResponse int

const (
	LaunchAnyway LaunchResponse = iota
	Quit
)

// ResponseSource blocks until the user has decided.
type ResponseSource interface {
	UpdateOrLaunch() UpdateResponse
	LaunchOrQuit() LaunchResponse
}

type Launcher interface {
	Launch() error
}

type IntegrityCheck interface {
	Verify(file FileDescriptor, path string) error
}
