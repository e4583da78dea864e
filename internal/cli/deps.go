package cli

// Dependencies carries everything the command tree needs; tests swap in
// fakes without touching globals.
type Dependencies struct {
	API     FeedAPI
	Config  *ConfigStore
	Version string
}
