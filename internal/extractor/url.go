package extractor

import (
	"net/url"
	"strconv"
	"strings"

	"unravel/internal/fragment"
)

// URLExtractor decomposes URL-shaped values per RFC3986: a url node into
// scheme/authority/path/query/fragment, a path into segments, a query or
// fragment into key=value pairs, and an authority into its subcomponents.
type URLExtractor struct {
	edge fragment.EdgeStyle
}

// NewURL returns a URL extractor with its default edge styling.
func NewURL() *URLExtractor {
	return &URLExtractor{
		edge: fragment.EdgeStyle{
			Color: "#4d4d4d",
			Title: "URL Parsing Functions",
			Label: "u",
		},
	}
}

func (x *URLExtractor) Name() string { return "url" }

func (x *URLExtractor) Attempt(s Sink, n *fragment.Node) {
	switch n.Type {
	case fragment.TypeURL:
		x.attemptURL(s, n)
	case fragment.TypePath:
		x.attemptPath(s, n)
	case fragment.TypeQuery, fragment.TypeFragment:
		x.attemptQuery(s, n)
	case fragment.TypeAuthority:
		x.attemptAuthority(s, n)
	}
}

func (x *URLExtractor) attemptURL(s Sink, n *fragment.Node) {
	v, ok := n.StringValue()
	if !ok {
		return
	}
	u, err := url.Parse(v)
	if err != nil || u.Host == "" {
		return
	}

	if u.Scheme != "" {
		s.Enqueue(n, fragment.Descriptor{
			Type: fragment.TypeScheme, Key: "Scheme", Value: u.Scheme,
			Edge: x.edge,
			Annotations: fragment.Annotations{
				Hover: "This is the URL scheme, per RFC3986",
			},
		})
	}

	if authority := rawAuthority(u); authority == u.Hostname() {
		s.Enqueue(n, fragment.Descriptor{
			Type: fragment.TypeHostname, Value: u.Hostname(),
			Edge: x.edge,
			Annotations: fragment.Annotations{
				Hover: "This is the host subcomponent of authority (also often called netloc), per RFC3986",
			},
		})
	} else {
		s.Enqueue(n, fragment.Descriptor{
			Type: fragment.TypeAuthority, Value: authority,
			Edge: x.edge,
			Annotations: fragment.Annotations{
				Hover: "This is the authority (also often called netloc), per RFC3986",
			},
		})
	}

	if u.Path != "" {
		s.Enqueue(n, fragment.Descriptor{
			Type: fragment.TypePath, Value: u.Path,
			Edge: x.edge,
			Annotations: fragment.Annotations{
				Hover: "This is the URL path, per RFC3986",
			},
		})
	}

	if u.RawQuery != "" {
		s.Enqueue(n, fragment.Descriptor{
			Type: fragment.TypeQuery, Value: u.RawQuery,
			Edge: x.edge,
			Annotations: fragment.Annotations{
				Hover:    "This is the URL query, per RFC3986",
				MaxWidth: 500,
			},
		})
	}

	if u.Fragment != "" {
		s.Enqueue(n, fragment.Descriptor{
			Type: fragment.TypeFragment, Value: u.Fragment,
			Edge: x.edge,
			Annotations: fragment.Annotations{
				Hover: "This is the URL fragment, per RFC3986",
			},
		})
	}
}

// attemptPath splits a path on "/". Trivial paths ("/", "/x") stay whole;
// segment keys carry the raw split position, so ordinary absolute paths
// number their real segments from 1 (position 0 is the empty lead).
func (x *URLExtractor) attemptPath(s Sink, n *fragment.Node) {
	v, ok := n.StringValue()
	if !ok {
		return
	}
	segments := strings.Split(v, "/")
	if len(segments) <= 2 {
		return
	}
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		s.Enqueue(n, fragment.Descriptor{
			Type: fragment.TypePathSegment, Key: i, Value: seg,
			Edge: x.edge,
			Annotations: fragment.Annotations{
				Hover: `This is a URL path segment (the URL path is split on "/"s). Numbering starts at 1.`,
			},
		})
	}
}

func (x *URLExtractor) attemptQuery(s Sink, n *fragment.Node) {
	v, ok := n.StringValue()
	if !ok {
		return
	}
	for _, p := range parsePairs(v, "&") {
		s.Enqueue(n, fragment.Descriptor{
			Type: fragment.TypeQueryPair, Key: p.key, Value: p.value,
			Edge: x.edge,
			Annotations: fragment.Annotations{
				Label: p.key + ": " + p.value,
			},
		})
	}
}

// attemptAuthority re-parses a bare authority by prefixing a synthetic
// scheme; the raw authority alone is not a valid absolute URL.
func (x *URLExtractor) attemptAuthority(s Sink, n *fragment.Node) {
	v, ok := n.StringValue()
	if !ok {
		return
	}
	u, err := url.Parse("https://" + v)
	if err != nil {
		return
	}

	if username := u.User.Username(); username != "" {
		s.Enqueue(n, fragment.Descriptor{
			Type: fragment.TypeUsername, Key: "Username", Value: username,
			Edge: x.edge,
			Annotations: fragment.Annotations{
				Hover: "This is the username subcomponent of authority, per RFC3986",
			},
		})
	}

	if password, set := u.User.Password(); set && password != "" {
		s.Enqueue(n, fragment.Descriptor{
			Type: fragment.TypePassword, Key: "Password", Value: password,
			Edge: x.edge,
			Annotations: fragment.Annotations{
				Hover: "This is the password subcomponent of authority, per RFC3986",
			},
		})
	}

	s.Enqueue(n, fragment.Descriptor{
		Type: fragment.TypeHostname, Key: "Host", Value: u.Hostname(),
		Edge: x.edge,
		Annotations: fragment.Annotations{
			Hover: "This is the host subcomponent of authority (also often called netloc), per RFC3986",
		},
	})

	if portStr := u.Port(); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			s.Enqueue(n, fragment.Descriptor{
				Type: fragment.TypePort, Key: "Port", Value: port,
				Edge: x.edge,
				Annotations: fragment.Annotations{
					Hover: "This is the port subcomponent of authority, per RFC3986",
				},
			})
		}
	}
}

// rawAuthority reassembles the userinfo@host:port component.
func rawAuthority(u *url.URL) string {
	if u.User == nil {
		return u.Host
	}
	return u.User.String() + "@" + u.Host
}

type pair struct {
	key   string
	value string
}

// parsePairs decodes a form-encoded string into key=value pairs. Values
// are grouped under the first appearance of their key, so duplicate keys
// come out as consecutive pairs ("x=1&y=2&x=3" -> x=1, x=3, y=2).
// Components without "=", with an empty value, or with invalid escapes
// are dropped.
func parsePairs(raw, sep string) []pair {
	var order []string
	grouped := make(map[string][]string)
	for _, comp := range strings.Split(raw, sep) {
		if comp == "" {
			continue
		}
		k, v, found := strings.Cut(comp, "=")
		if !found || v == "" {
			continue
		}
		key, err := url.QueryUnescape(k)
		if err != nil {
			continue
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			continue
		}
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], value)
	}

	var pairs []pair
	for _, key := range order {
		for _, value := range grouped[key] {
			pairs = append(pairs, pair{key: key, value: value})
		}
	}
	return pairs
}
