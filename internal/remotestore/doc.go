// Package remotestore pushes finished artifacts to durable storage, with a
// local-fallback policy for deployments that tolerate remote outages.
package remotestore
