//go:build gcloud

package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KasumiMercury/primind-dose-core/internal/config"
)

func TestPubSubConfigValidateSuccess(t *testing.T) {
	cfg := config.PubSubConfig{
		GCloudProjectID:      "dose-core-prod",
		ChangesTopic:         "db.changes",
		ChangesSubscription:  "dose-core",
		NeedsResolutionTopic: "offline_action.needs_resolution",
	}

	assert.NoError(t, cfg.Validate())
}

func TestPubSubConfigValidateError(t *testing.T) {
	valid := config.PubSubConfig{
		GCloudProjectID:      "dose-core-prod",
		ChangesTopic:         "db.changes",
		ChangesSubscription:  "dose-core",
		NeedsResolutionTopic: "offline_action.needs_resolution",
	}

	tests := []struct {
		name        string
		mutate      func(*config.PubSubConfig)
		expectedErr string
	}{
		{
			name:        "missing project",
			mutate:      func(c *config.PubSubConfig) { c.GCloudProjectID = "" },
			expectedErr: "GCLOUD_PROJECT_ID",
		},
		{
			name:        "empty needs-resolution topic",
			mutate:      func(c *config.PubSubConfig) { c.NeedsResolutionTopic = "" },
			expectedErr: "PUBSUB_NEEDS_RESOLUTION_TOPIC",
		},
		{
			name:        "empty changes subscription",
			mutate:      func(c *config.PubSubConfig) { c.ChangesSubscription = "" },
			expectedErr: "PUBSUB_CHANGES_SUBSCRIPTION",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()

			assert.ErrorContains(t, err, tt.expectedErr)
		})
	}
}
