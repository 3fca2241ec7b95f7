package querycache

import "strings"

// sep terminates key parts. Occurrences inside a part are escaped with esc.
const (
	sep = "\x1f"
	esc = "\x1b"
)

var partEscaper = strings.NewReplacer(esc, esc+esc, sep, esc+sep)

// Key is an ordered query key such as ["posts", "-created_date"].
// A key is a prefix of every key that extends it.
type Key []string

// K builds a Key from parts.
func K(parts ...string) Key {
	return Key(parts)
}

// String encodes the key for storage. Every part, including the last, is
// terminated so that ["posts"] prefixes ["posts", "x"] but not
// ["postsByDestination"]. Parts are escaped, so an id carrying the
// separator cannot forge a key boundary.
func (k Key) String() string {
	var b strings.Builder
	for _, p := range k {
		partEscaper.WriteString(&b, p)
		b.WriteString(sep)
	}
	return b.String()
}

// HasPrefix reports whether k starts with prefix.
func (k Key) HasPrefix(prefix Key) bool {
	return strings.HasPrefix(k.String(), prefix.String())
}

// Query keys shared by the services.
const (
	KeyPosts              = "posts"
	KeyPost               = "post"
	KeyRelatedPosts       = "relatedPosts"
	KeyGallery            = "gallery"
	KeyPostsByDestination = "postsByDestination"
	KeyDestinations       = "destinations"
	KeyDestination        = "destination"
	KeyComments           = "comments"
	KeyReactions          = "reactions"
	KeyUserReaction       = "userReaction"
)
