package domain

// BackendType identifies which public job-listing protocol a company uses.
type BackendType string

const (
	BackendGreenhouse BackendType = "greenhouse"
	BackendLever      BackendType = "lever"
	BackendAshby      BackendType = "ashby"
	BackendWorkday    BackendType = "workday"
	BackendCustom     BackendType = "custom"
)

// CountUnknown is the posting count reported when a backend verifies without
// a countable listing body (workday marker probe).
const CountUnknown = -1

// ATSCandidate is a proposed (backend, slug) pair awaiting verification.
// Slug may briefly hold a board URL when a markup indicator captured one;
// the resolver derives the real slug before verifying.
type ATSCandidate struct {
	Backend BackendType
	Slug    string
}

// VerifiedEndpoint is the terminal artifact of resolution. Verified=false
// means "needs custom handling", not an error; the caller falls back to the
// heuristic crawler.
type VerifiedEndpoint struct {
	Backend   BackendType
	Slug      string
	DirectURL string
	JobCount  int
	Verified  bool
}
