// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package estat

import (
	"strings"
)

// RESULT.STATUS values returned inside every e-Stat response body.
const (
	statusOK          = 0   // completed
	statusNoData      = 1   // completed, nothing matched
	statusPartialOK   = 2   // completed, some parameters ignored
	statusAuthFailed  = 100 // application ID rejected
	statusSystemError = 500 // 500 and above: server-side failure
)

// Fragments of ERROR_MSG used when the numeric status alone is ambiguous.
var (
	authMessageHints = []string{
		"appId",
		"アプリケーションID",
		"認証",
	}
	notFoundMessageHints = []string{
		"存在しません",
		"does not exist",
		"not found",
	}
)

// checkStatus converts RESULT into one of the error kinds. emptyOK marks
// endpoints (search) where "no data" is an ordinary empty answer.
func checkStatus(op, target string, status int, msg string, emptyOK bool) error {
	switch {
	case status == statusOK || status == statusPartialOK:
		return nil
	case status == statusNoData:
		if emptyOK {
			return nil
		}
		return &NotFoundError{Op: op, StatsID: target, Status: status, Message: msg}
	case status == statusAuthFailed || containsAny(msg, authMessageHints):
		return &AuthenticationError{Op: op, Status: status, Message: msg}
	case containsAny(msg, notFoundMessageHints):
		return &NotFoundError{Op: op, StatsID: target, Status: status, Message: msg}
	default:
		if msg == "" {
			msg = "request rejected by e-Stat"
		}
		return &ServiceError{Op: op, Status: status, Message: msg}
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
