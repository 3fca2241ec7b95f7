package api

// HeaderDataSource reports which path produced a facade read:
// remote-ok, remote-error-fell-back or mock-only.
const HeaderDataSource = "X-Data-Source"
