// Package ipc exposes the daemon over JSON-RPC Unix sockets and ships
// the matching client used by the CLI.
//
// It owns socket lifecycle management, request/response DTOs, and the
// conversions between catalog models and lightweight wire
// representations. The external web layer that manages stations and
// schedules reaches the engine through this surface.
package ipc
