package config

import (
	"net"
	neturl "net/url"
	"sort"
	"strconv"
	"strings"
)

// URIValue returns the MongoDB connection string, preferring an explicit URI.
func (c DatabaseRuntimeConfig) URIValue() string {
	if uri := strings.TrimSpace(c.URI); uri != "" {
		if !strings.Contains(uri, "://") {
			return "mongodb://" + uri
		}
		return uri
	}

	host := strings.TrimSpace(c.Host)
	if host == "" {
		host = defaultMongoHost
	}
	port := c.Port
	if port == 0 {
		port = defaultMongoPort
	}

	u := &neturl.URL{
		Scheme: "mongodb",
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   "/",
	}
	username := strings.TrimSpace(c.Username)
	if username != "" {
		if c.Password != "" {
			u.User = neturl.UserPassword(username, c.Password)
		} else {
			u.User = neturl.User(username)
		}
	}

	query := neturl.Values{}
	if src := strings.TrimSpace(c.AuthSource); src != "" {
		query.Set("authSource", src)
	}
	keys := make([]string, 0, len(c.Params))
	for key := range c.Params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		k := strings.TrimSpace(key)
		v := strings.TrimSpace(c.Params[key])
		if k != "" && v != "" {
			query.Set(k, v)
		}
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// DatabaseName returns the database to use, defaulting when unset.
func (c DatabaseRuntimeConfig) DatabaseName() string {
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	return defaultMongoName
}

// URLValue returns the Redis connection URL.
func (c RedisRuntimeConfig) URLValue() string {
	if u := normalizeRedisRawURL(c.URL); u != "" {
		return u
	}

	host := strings.TrimSpace(c.Host)
	if host == "" {
		host = defaultRedisHost
	}
	port := c.Port
	if port == 0 {
		port = defaultRedisPort
	}
	db := c.DB
	if db < 0 {
		db = defaultRedisDB
	}

	scheme := "redis"
	if c.TLS {
		scheme = "rediss"
	}

	u := &neturl.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   "/" + strconv.Itoa(db),
	}
	username := strings.TrimSpace(c.Username)
	password := strings.TrimSpace(c.Password)
	if username != "" {
		if password != "" {
			u.User = neturl.UserPassword(username, password)
		} else {
			u.User = neturl.User(username)
		}
	} else if password != "" {
		u.User = neturl.UserPassword("", password)
	}

	if len(c.Params) > 0 {
		query := neturl.Values{}
		for key, value := range c.Params {
			k := strings.TrimSpace(key)
			v := strings.TrimSpace(value)
			if k != "" && v != "" {
				query.Set(k, v)
			}
		}
		if len(query) > 0 {
			u.RawQuery = query.Encode()
		}
	}

	return u.String()
}
