package action

// DomainMeta holds the display attributes attached to domain-valued
// actions. The mobile client renders these directly.
type DomainMeta struct {
	Color string
	Icon  string
}

// domainMeta is the closed domain enumeration with its color/icon pairs.
// Unknown domains fall back to defaultDomainMeta.
var domainMeta = map[string]DomainMeta{
	"health":        {Color: "#4CAF50", Icon: "heart-pulse"},
	"career":        {Color: "#2196F3", Icon: "briefcase"},
	"relationships": {Color: "#E91E63", Icon: "people"},
	"finances":      {Color: "#FF9800", Icon: "wallet"},
	"learning":      {Color: "#9C27B0", Icon: "book-open"},
	"creativity":    {Color: "#00BCD4", Icon: "palette"},
	"community":     {Color: "#8BC34A", Icon: "hand-heart"},
	"recreation":    {Color: "#FFC107", Icon: "tent"},
}

var defaultDomainMeta = DomainMeta{Color: "#9E9E9E", Icon: "target"}

// MetaForDomain returns the display attributes for a domain name.
func MetaForDomain(domain string) DomainMeta {
	if m, ok := domainMeta[domain]; ok {
		return m
	}
	return defaultDomainMeta
}
