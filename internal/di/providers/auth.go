package providers

import (
	"github.com/samber/do/v2"

	"github.com/offroutechronicles/offroute-server/internal/auth"
	"github.com/offroutechronicles/offroute-server/internal/config"
	"github.com/offroutechronicles/offroute-server/internal/logger"
)

// AuthKey wraps the guest token key bytes.
type AuthKey []byte

// ProvideAuthKey loads or generates the guest token key.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.LoadOrGenerateKey(cfg.App.DataPath)
	if err != nil {
		return nil, err
	}

	cfg.Identity.Key = key

	log.Info("Identity key loaded",
		"token_duration", cfg.Identity.TokenDuration,
	)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO guest token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService([]byte(authKey), cfg.Identity.TokenDuration)
}
