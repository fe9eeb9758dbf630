package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-driver database driver ("pgx" or "sqlite3")
//	-c/-config json file path with configs
//	-quota default sync quota in kB (0 = unlimited)
//	-node-address storage node URL advertised to clients
//	-directory-address secondary credential directory base URL
//	-directory-timeout directory request timeout (e.g., "5s")
//	-admin-secret admin API shared secret
//	-admin-token-sign-key admin token signing key
//	-admin-token-issuer admin token issuer name
//	-admin-token-duration admin token duration (e.g., "1h", "30m")
//	-request-timeout request timeout (e.g., "30s", "1m")
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var databaseDSN string
	var databaseDriver string
	var jsonConfigPath string
	var quota int64
	var nodeAddress string
	var directoryAddress string
	var directoryTimeout time.Duration
	var adminSecret string
	var adminTokenSignKey string
	var adminTokenIssuer string
	var adminTokenDuration time.Duration
	var requestTimeout time.Duration

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&databaseDriver, "driver", "", "Database driver (pgx or sqlite3)")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.Int64Var(&quota, "quota", 0, "Default sync quota in kB (0 = unlimited)")
	flag.StringVar(&nodeAddress, "node-address", "", "Storage node URL for node discovery")
	flag.StringVar(&directoryAddress, "directory-address", "", "Secondary credential directory URL")
	flag.DurationVar(&directoryTimeout, "directory-timeout", 0, "Directory request timeout (e.g., 5s)")
	flag.StringVar(&adminSecret, "admin-secret", "", "Admin API shared secret")
	flag.StringVar(&adminTokenSignKey, "admin-token-sign-key", "", "Admin token signing key")
	flag.StringVar(&adminTokenIssuer, "admin-token-issuer", "", "Admin token issuer")
	flag.DurationVar(&adminTokenDuration, "admin-token-duration", 0, "Admin token duration (e.g., 1h, 30m)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")

	flag.Parse()

	return &StructuredConfig{
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			DB: DB{
				Driver: databaseDriver,
				DSN:    databaseDSN,
			},
		},
		Sync: Sync{
			Quota:       quota,
			NodeAddress: nodeAddress,
		},
		Directory: Directory{
			Address:        directoryAddress,
			RequestTimeout: directoryTimeout,
		},
		Admin: Admin{
			Secret:        adminSecret,
			TokenSignKey:  adminTokenSignKey,
			TokenIssuer:   adminTokenIssuer,
			TokenDuration: adminTokenDuration,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns the default server address.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
