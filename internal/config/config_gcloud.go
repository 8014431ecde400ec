//go:build gcloud

package config

import "errors"

// Validate checks what the Cloud Pub/Sub transport needs: a project for both directions, a topic
// for needs-resolution events and a subscription suffix for the change feed.
func (c *PubSubConfig) Validate() error {
	if c.GCloudProjectID == "" {
		return errors.New("GCLOUD_PROJECT_ID is required for event publishing")
	}

	if c.NeedsResolutionTopic == "" {
		return errors.New("PUBSUB_NEEDS_RESOLUTION_TOPIC must not be empty")
	}

	if c.ChangesTopic == "" || c.ChangesSubscription == "" {
		return errors.New("PUBSUB_CHANGES_TOPIC and PUBSUB_CHANGES_SUBSCRIPTION must not be empty")
	}

	return nil
}
