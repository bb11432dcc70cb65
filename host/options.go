package host

// Options are the command line options of the stdio host.
type Options struct {
	Provider     string `short:"p" long:"provider" description:"capability provider" choice:"mock" choice:"noop" default:"mock"`
	APIKey       string `short:"k" long:"api-key" description:"configure the session at startup with this api key"`
	OptionsURL   string `short:"o" long:"options" description:"url of a flat configure options payload (file, mem or any afs supported scheme)"`
	PurchaseFlow bool   `long:"purchase-flow" description:"let the provider run the purchase flow"`
}
