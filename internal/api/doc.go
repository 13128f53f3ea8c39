// Package api provides the SystemCrafter orchestrator REST client.
//
// The base URL includes the version prefix, e.g.
// https://orchestrator.example/api/v1. Authentication is a bearer token,
// either supplied directly or obtained via Login.
//
// Key endpoints: /auth/login, /projects/{id}, /tasks/project/{id},
// /tasks/{id}/logs, /projects/{id}/artifacts
package api
