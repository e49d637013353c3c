package dto

type ProviderInfo struct {
	Name    string
	Version string
	Enabled bool
	Binary  string
}

type DoctorResult struct {
	Name            string
	BinaryReachable bool
	ChecksumValid   bool
	LifecycleOK     bool
	Error           string
}

type DescribeOutput struct {
	Name    string
	Version string
	Sources []string
}

type LookupInput struct {
	Provider string
	Title    string
	Author   string
	ISBN     string
}

type LookupOutput struct {
	Provider  string
	Found     bool
	Title     string
	Authors   []string
	Genres    []string
	PageCount int
}
