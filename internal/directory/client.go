package directory

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/go-ldap/ldap/v3"

	"github.com/ndanilov/usersweep/internal/logger"
)

// Config contains directory connection and search parameters.
type Config struct {
	URL          string
	BindDN       string
	BindPassword string
	BaseDN       string
	Filter       string
	LoginAttr    string
	PageSize     uint32
	StartTLS     bool
	Timeout      time.Duration
}

// Internal adapter interface to enable mocking without a real LDAP server.
type ldapConn interface {
	Bind(username, password string) error
	SearchWithPaging(req *ldap.SearchRequest, pagingSize uint32) (*ldap.SearchResult, error)
	Close() error
}

var _ ldapConn = (*ldap.Conn)(nil)

// Client fetches directory snapshots over LDAP.
type Client struct {
	conn   ldapConn
	cfg    Config
	logger *logger.Logger
}

// Dial connects and binds to the directory. Any failure here is fatal for
// the run: a snapshot must never be built from a half-working connection.
func Dial(cfg Config, l *logger.Logger) (*Client, error) {
	conn, err := ldap.DialURL(cfg.URL, ldap.DialWithDialer(&net.Dialer{Timeout: cfg.Timeout}))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to directory: %w", err)
	}

	if cfg.StartTLS {
		if err := conn.StartTLS(&tls.Config{ServerName: hostFromURL(cfg.URL)}); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if cfg.BindDN != "" {
		if err := conn.Bind(cfg.BindDN, cfg.BindPassword); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to bind as %s: %w", cfg.BindDN, err)
		}
	}

	return NewClientWithConn(conn, cfg, l), nil
}

// NewClientWithConn allows injecting a mockable connection (used in tests).
func NewClientWithConn(conn ldapConn, cfg Config, l *logger.Logger) *Client {
	return &Client{conn: conn, cfg: cfg, logger: l}
}

// FetchSnapshot runs the configured search and collapses the results into a
// snapshot keyed by the login attribute. Entries without the attribute are
// dropped.
func (c *Client) FetchSnapshot() (*Snapshot, error) {
	req := ldap.NewSearchRequest(
		c.cfg.BaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0, 0, false,
		c.cfg.Filter,
		[]string{c.cfg.LoginAttr},
		nil,
	)

	res, err := c.conn.SearchWithPaging(req, c.cfg.PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to search directory: %w", err)
	}

	logins := make([]string, 0, len(res.Entries))
	for _, entry := range res.Entries {
		login := entry.GetAttributeValue(c.cfg.LoginAttr)
		if login == "" {
			c.logger.Warn("directory entry without login attribute, skipping",
				"dn", entry.DN,
				"attribute", c.cfg.LoginAttr)
			continue
		}
		logins = append(logins, login)
	}

	snap := NewSnapshot(logins)
	c.logger.Info("directory snapshot built",
		"entries", len(res.Entries),
		"logins", snap.Size())

	return snap, nil
}

// Close releases the directory connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func hostFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
