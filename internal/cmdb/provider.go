package cmdb

import (
	"context"
	"net/url"
	"strconv"

	"cmdbmcp/internal/api"
	"cmdbmcp/internal/capability"
	"cmdbmcp/internal/config"
	"cmdbmcp/internal/normalize"
)

// Upstream is the subset of the upstream client used by the provider.
type Upstream interface {
	Get(ctx context.Context, rawURL string, query url.Values, token config.RedactedToken) (interface{}, error)
	Post(ctx context.Context, rawURL string, body interface{}, token config.RedactedToken) (interface{}, error)
}

// Provider exposes the CMDB/Zeus endpoints as capabilities.
type Provider struct {
	client Upstream
	cfg    config.CMDBConfig
}

// NewProvider creates a provider calling the endpoints derived from cfg.
func NewProvider(client Upstream, cfg config.CMDBConfig) *Provider {
	return &Provider{client: client, cfg: cfg}
}

// Register adds every CMDB capability to reg.
func (p *Provider) Register(reg *capability.Registry) error {
	for _, d := range p.Descriptors() {
		if err := reg.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// Descriptors returns the CMDB capability declarations.
func (p *Provider) Descriptors() []capability.Descriptor {
	return []capability.Descriptor{
		{
			Kind:     api.KindResource,
			Name:     "cmdb_product_lines",
			URI:      "cmdb://product-lines{?rows}",
			MIMEType: "application/json",
			Remote:   true,
			Description: "CMDB product line catalog. Returns {rows, products, raw}. " +
				"Each product carries product_id (use it when calling CMDB APIs), product_name (display label), " +
				"business_id and business_dept (owning business unit).",
			Args: []api.ArgMetadata{
				{Name: "rows", Type: api.ArgTypeInteger, Default: 1000, Minimum: api.Min(1), Description: "Page size passed upstream"},
			},
			Handler: p.productLines,
		},
		{
			Kind:     api.KindResource,
			Name:     "zeus_user_directory",
			URI:      "zeus://users{?rows}",
			MIMEType: "application/json",
			Remote:   true,
			Description: "Zeus user directory. Returns {rows, users, raw}. " +
				"Each user carries id, name (account), display_name, full_name (preferred for exact matching), group and role.",
			Args: []api.ArgMetadata{
				{Name: "rows", Type: api.ArgTypeInteger, Default: 1000, Minimum: api.Min(1), Description: "Page size passed upstream"},
			},
			Handler: p.userDirectory,
		},
		{
			Kind:   api.KindTool,
			Name:   "exist_cmdb_domain_list",
			Remote: true,
			Description: "Return existing CMDB domain records (deployDomain). Returns {query, total, domains, raw}. " +
				"Domains keep upstream fields such as addr, domainId, id, domainType, domainTypeName, serveType, " +
				"regionId, productId, teamId, devBy, opsBy and useBy. Treat addr as the canonical key when matching domains.",
			Args: []api.ArgMetadata{
				{Name: "page", Type: api.ArgTypeInteger, Default: 1, Minimum: api.Min(1), Description: "Page number"},
				{Name: "rows", Type: api.ArgTypeInteger, Default: 10000, Minimum: api.Min(1), Description: "Page size"},
				{Name: "product_id", Type: api.ArgTypeString, Default: "", Description: "Filter by product line ID; empty for all"},
				{Name: "children_type", Type: api.ArgTypeInteger, Default: 3, Description: "CMDB children type; 3 lists domains"},
			},
			Handler: p.domainList,
		},
		{
			Kind:   api.KindTool,
			Name:   "create_cmdb_domain",
			Remote: true,
			Description: "Create a new CMDB domain entry. Returns {request, result} where request is the exact body sent. " +
				"Not idempotent: calling twice creates two records.",
			Args: []api.ArgMetadata{
				{Name: "addr", Type: api.ArgTypeString, Required: true, Description: "Domain address"},
				{Name: "product_id", Type: api.ArgTypeInteger, Required: true, Description: "Product line ID"},
				{Name: "team_id", Type: api.ArgTypeInteger, Required: true, Description: "Development team ID"},
				{Name: "use_describe", Type: api.ArgTypeString, Required: true, Description: "Usage description"},
				{Name: "dev_by", Type: api.ArgTypeString, Required: true, Description: "Development owner"},
				{Name: "ops_by", Type: api.ArgTypeString, Required: true, Description: "Operations owner"},
				{Name: "use_by", Type: api.ArgTypeString, Required: true, Description: "User of the domain"},
				{Name: "serve_type", Type: api.ArgTypeString, Default: "http", Enum: []interface{}{"http", "https"}, Description: "Protocol"},
				{Name: "domain_type", Type: api.ArgTypeInteger, Default: 2, Enum: []interface{}{1, 2}, Description: "1 = intranet, 2 = internet"},
				{Name: "status", Type: api.ArgTypeInteger, Default: 2, Enum: []interface{}{1, 2}, Description: "1 = offline, 2 = online"},
				{Name: "region_id", Type: api.ArgTypeInteger, Default: 1, Enum: []interface{}{1, 2}, Description: "1 = domestic, 2 = overseas"},
				{Name: "is_detection", Type: api.ArgTypeBoolean, Default: false, Description: "Enable probing"},
			},
			Handler: p.createDomain,
		},
	}
}

func (p *Provider) productLines(ctx context.Context, inv *capability.Invocation) (interface{}, error) {
	rows := inv.Args.Int("rows")
	inv.Notifier.Info("Fetching CMDB product lines (rows=%d)", rows)

	raw, err := p.client.Get(ctx, p.cfg.ProductLinesURL(), rowsQuery(rows), inv.Token)
	if err != nil {
		inv.Notifier.Error("Product line request failed: %v", err)
		return nil, err
	}
	return normalize.ProductLines(raw, rows), nil
}

func (p *Provider) userDirectory(ctx context.Context, inv *capability.Invocation) (interface{}, error) {
	rows := inv.Args.Int("rows")
	inv.Notifier.Info("Fetching Zeus user directory (rows=%d)", rows)

	raw, err := p.client.Get(ctx, p.cfg.UserDirectoryURL(), rowsQuery(rows), inv.Token)
	if err != nil {
		inv.Notifier.Error("User directory request failed: %v", err)
		return nil, err
	}
	return normalize.UserDirectory(raw, rows), nil
}

func (p *Provider) domainList(ctx context.Context, inv *capability.Invocation) (interface{}, error) {
	query := normalize.DomainListQuery{
		Page:         inv.Args.Int("page"),
		Rows:         inv.Args.Int("rows"),
		ProductID:    inv.Args.String("product_id"),
		ChildrenType: inv.Args.Int("children_type"),
	}
	inv.Notifier.Info("Requesting CMDB domain list with rows=%d, page=%d, productId='%s'", query.Rows, query.Page, query.ProductID)

	params := url.Values{
		"page":         {strconv.Itoa(query.Page)},
		"rows":         {strconv.Itoa(query.Rows)},
		"productId":    {query.ProductID},
		"childrenType": {strconv.Itoa(query.ChildrenType)},
	}
	raw, err := p.client.Get(ctx, p.cfg.ListChildrenURL(), params, inv.Token)
	if err != nil {
		inv.Notifier.Error("Domain list request failed: %v", err)
		return nil, err
	}
	return normalize.DomainList(raw, query), nil
}

// DomainCreateRequest is the body POSTed to the domain registration endpoint.
type DomainCreateRequest struct {
	UseDescribe string `json:"useDescribe"`
	IsDetection bool   `json:"isDetection"`
	ServeType   string `json:"serveType"`
	DomainType  int    `json:"domainType"`
	Status      int    `json:"status"`
	RegionID    int    `json:"regionId"`
	Addr        string `json:"addr"`
	TeamID      int    `json:"teamId"`
	DevBy       string `json:"devBy"`
	OpsBy       string `json:"opsBy"`
	UseBy       string `json:"useBy"`
	ProductID   int    `json:"productId"`
}

func (p *Provider) createDomain(ctx context.Context, inv *capability.Invocation) (interface{}, error) {
	a := inv.Args
	body := DomainCreateRequest{
		UseDescribe: a.String("use_describe"),
		IsDetection: a.Bool("is_detection"),
		ServeType:   a.String("serve_type"),
		DomainType:  a.Int("domain_type"),
		Status:      a.Int("status"),
		RegionID:    a.Int("region_id"),
		Addr:        a.String("addr"),
		TeamID:      a.Int("team_id"),
		DevBy:       a.String("dev_by"),
		OpsBy:       a.String("ops_by"),
		UseBy:       a.String("use_by"),
		ProductID:   a.Int("product_id"),
	}
	inv.Notifier.Info("Creating CMDB domain '%s' for product %d", body.Addr, body.ProductID)

	raw, err := p.client.Post(ctx, p.cfg.DomainCreateURL(), body, inv.Token)
	if err != nil {
		inv.Notifier.Error("Domain create request failed: %v", err)
		return nil, err
	}
	return normalize.DomainCreate(body, raw), nil
}

func rowsQuery(rows int) url.Values {
	return url.Values{"rows": {strconv.Itoa(rows)}}
}
