// internal/app/features/login/demo.go
package login

import (
	"crypto/subtle"
	"sync"

	"github.com/dalemusser/hygienedash/internal/app/system/auth"
	"golang.org/x/crypto/bcrypt"
)

// demoAccount is a built-in account accepted when auth_mode is "demo".
type demoAccount struct {
	Username string
	Name     string
	Role     string
	hash     []byte
}

var demoSeed = []struct {
	username, password, name, role string
}{
	{"superadmin", "admin123", "Super Admin", "superadmin"},
	{"manager", "manager123", "Program Manager", "manager"},
	{"viewer", "viewer123", "Viewer", "viewer"},
}

var (
	demoOnce     sync.Once
	demoAccounts []demoAccount
	demoErr      error
)

// loadDemoAccounts hashes the demo passwords on first use so plaintext
// never leaves this file.
func loadDemoAccounts() ([]demoAccount, error) {
	demoOnce.Do(func() {
		for _, s := range demoSeed {
			h, err := bcrypt.GenerateFromPassword([]byte(s.password), bcrypt.DefaultCost)
			if err != nil {
				demoErr = err
				return
			}
			demoAccounts = append(demoAccounts, demoAccount{
				Username: s.username,
				Name:     s.name,
				Role:     s.role,
				hash:     h,
			})
		}
	})
	return demoAccounts, demoErr
}

// DemoUsernames lists the demo usernames for the login page hint.
func DemoUsernames() []string {
	out := make([]string, 0, len(demoSeed))
	for _, s := range demoSeed {
		out = append(out, s.username)
	}
	return out
}

// checkDemo returns the session user for a matching username and password.
func checkDemo(username, password string) (auth.SessionUser, bool, error) {
	accounts, err := loadDemoAccounts()
	if err != nil {
		return auth.SessionUser{}, false, err
	}
	for _, a := range accounts {
		if subtle.ConstantTimeCompare([]byte(a.Username), []byte(username)) != 1 {
			continue
		}
		if bcrypt.CompareHashAndPassword(a.hash, []byte(password)) != nil {
			return auth.SessionUser{}, false, nil
		}
		return auth.SessionUser{ID: a.Username, Name: a.Name, Role: a.Role}, true, nil
	}
	return auth.SessionUser{}, false, nil
}
