// Package services holds cross-cutting helpers shared by the engine
// components: the error taxonomy used to classify capture, discovery,
// and configuration failures, and context annotation helpers that tag
// log records with station/show/job identity.
package services
