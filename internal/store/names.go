package store

// Collection names served over HTTP and migrated by cmd/migrate-store.
const (
	Audiences           = "audiences"
	AdAccounts          = "ad-accounts"
	Campaigns           = "campaigns"
	Influencers         = "influencers"
	InfluencerCampaigns = "influencer-campaigns"
	Creatives           = "creatives"
	Channels            = "channels"
)

// Singleton names.
const (
	Brand  = "brand"
	Budget = "budget"
	Config = "config"
)

// CollectionNames lists every multi-document collection.
var CollectionNames = []string{Audiences, AdAccounts, Campaigns, Influencers, InfluencerCampaigns, Creatives, Channels}

// SingletonNames lists every single-document name.
var SingletonNames = []string{Brand, Budget, Config}
