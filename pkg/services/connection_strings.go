package services

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ShellQuote wraps value in single quotes so a POSIX shell reads it as one literal word.
// Embedded single quotes become '\''.
func ShellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}

// MySQLCommand returns a mysql CLI invocation for the given credentials.
// The port is numeric and left unquoted.
func MySQLCommand(host string, port int, username, password, database string) string {
	return fmt.Sprintf("mysql -u %s -p%s -h %s -P %d %s",
		ShellQuote(username), ShellQuote(password), ShellQuote(host), port, ShellQuote(database))
}

// JDBCURL returns a MySQL JDBC URL carrying the credentials as query parameters.
func JDBCURL(host string, port int, username, password, database string) string {
	return fmt.Sprintf("jdbc:mysql://%s:%d/%s?user=%s&password=%s",
		host, port, database, EncodeURIComponent(username), EncodeURIComponent(password))
}

// MySQLDSN returns a go-sql-driver/mysql data source name.
func MySQLDSN(host string, port int, username, password, database string) string {
	cfg := mysql.NewConfig()
	cfg.User = username
	cfg.Passwd = password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	cfg.DBName = database
	return cfg.FormatDSN()
}

// uriComponentReplacer restores the characters encodeURIComponent leaves alone
// but url.QueryEscape escapes, and switches space from '+' to %20.
var uriComponentReplacer = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent percent-encodes value like ECMAScript's encodeURIComponent,
// which is what JDBC consumers of these URLs expect.
func EncodeURIComponent(value string) string {
	return uriComponentReplacer.Replace(url.QueryEscape(value))
}
