// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import "github.com/taibuivan/riddlerush/internal/identity"

// IsAdmin reports whether s may reach admin-only surfaces.
// A loading session is never an admin, whatever user it still carries.
func IsAdmin(s Session) bool {
	return !s.IsLoading && s.User != nil && s.User.Role == identity.RoleAdmin
}
