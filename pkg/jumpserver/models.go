package jumpserver

import (
	"encoding/json"

	"github.com/ekaya-inc/jumpserver-mcp/pkg/jsonutil"
)

const (
	// ProtocolMySQL is the only database protocol this server resolves.
	ProtocolMySQL = "mysql"
	// ConnectMethodDBGuide is JumpServer's "connect with a local client" method.
	ConnectMethodDBGuide = "db_guide"
)

// DatabaseAsset is one entry from the database asset suggestions endpoint.
type DatabaseAsset struct {
	ID      jsonutil.FlexibleString `json:"id"`
	Name    jsonutil.FlexibleString `json:"name"`
	DBName  jsonutil.FlexibleString `json:"db_name"`
	OrgID   jsonutil.FlexibleString `json:"org_id"`
	Address jsonutil.FlexibleString `json:"address,omitempty"`
}

// ConnectOptions are the client preferences sent with a connection token request.
type ConnectOptions struct {
	Charset             string `json:"charset"`
	DisableAutoHash     bool   `json:"disableautohash"`
	Resolution          string `json:"resolution"`
	BackspaceAsCtrlH    bool   `json:"backspaceAsCtrlH"`
	AppletConnectMethod string `json:"appletConnectMethod"`
	Reusable            bool   `json:"reusable"`
}

// DefaultConnectOptions returns the static options used for every token.
func DefaultConnectOptions() ConnectOptions {
	return ConnectOptions{
		Charset:             "default",
		DisableAutoHash:     false,
		Resolution:          "auto",
		BackspaceAsCtrlH:    false,
		AppletConnectMethod: "web",
		Reusable:            false,
	}
}

// ConnectionTokenRequest is the body of POST /authentication/connection-token/.
type ConnectionTokenRequest struct {
	Asset          string         `json:"asset"`
	Account        string         `json:"account"`
	Protocol       string         `json:"protocol"`
	InputUsername  string         `json:"input_username"`
	InputSecret    string         `json:"input_secret"`
	ConnectMethod  string         `json:"connect_method"`
	ConnectOptions ConnectOptions `json:"connect_options"`
}

// ConnectionToken is a short-lived credential minted by JumpServer.
// ID is used as the database username and Value as the password.
type ConnectionToken struct {
	ID    jsonutil.FlexibleString `json:"id"`
	Value jsonutil.FlexibleString `json:"value"`
	OrgID jsonutil.FlexibleString `json:"org_id"`

	// Passed through untouched; JumpServer versions differ in their types.
	ExpireTime  json.RawMessage `json:"expire_time,omitempty"`
	DateExpired json.RawMessage `json:"date_expired,omitempty"`
}

// SmartEndpoint is the terminal endpoint JumpServer picks for a token.
type SmartEndpoint struct {
	Host      jsonutil.FlexibleString `json:"host"`
	MySQLPort jsonutil.FlexibleString `json:"mysql_port"`
}
