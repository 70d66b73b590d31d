// Package task implements taskdeck's per-user task resource: model, stores
// and HTTP handlers. Every endpoint requires an authenticated principal and
// mutations are restricted to the task's owner.
package task
