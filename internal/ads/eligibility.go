package ads

import "context"

// EligibilityHook decides whether a user may receive a reward for the given
// ad view. The gateway provides no quota persistence of its own; embedding
// applications supply their own rules here.
type EligibilityHook func(ctx context.Context, uid, adID string) error

// AllowAll is the default hook: every verified ad view is rewardable.
func AllowAll(context.Context, string, string) error { return nil }
