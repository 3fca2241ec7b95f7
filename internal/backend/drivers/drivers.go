// Package drivers links every backend driver into the binary. Import it
// for side effects wherever a backend URL is opened.
package drivers

import (
	_ "github.com/offroutechronicles/offroute-server/internal/backend/memory"
	_ "github.com/offroutechronicles/offroute-server/internal/backend/mongo"
	_ "github.com/offroutechronicles/offroute-server/internal/backend/postgres"
	_ "github.com/offroutechronicles/offroute-server/internal/backend/rest"
	_ "github.com/offroutechronicles/offroute-server/internal/backend/sqlite"
)
