package http

import (
	"fmt"
	"html/template"
	"net"
	"net/http"
	"strings"

	"spendbook/internal/core"
)

// trustedProxies defines networks that are trusted to set forwarding headers.
var trustedProxies = []*net.IPNet{
	parsecidr("127.0.0.0/8"),
	parsecidr("10.0.0.0/8"),
	parsecidr("172.16.0.0/12"),
	parsecidr("192.168.0.0/16"),
}

func parsecidr(cidr string) *net.IPNet {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		panic(fmt.Sprintf("failed to parse trusted proxy CIDR %s: %v", cidr, err))
	}
	return network
}

func isTrustedProxy(ip net.IP) bool {
	for _, network := range trustedProxies {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// extractClientIP extracts the real client IP, honoring forwarding headers
// only when the direct peer is a trusted proxy.
func extractClientIP(r *http.Request) string {
	directIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		directIP = r.RemoteAddr
	}

	parsedDirectIP := net.ParseIP(directIP)
	if parsedDirectIP == nil {
		return directIP
	}

	if isTrustedProxy(parsedDirectIP) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first := strings.TrimSpace(strings.Split(xff, ",")[0])
			if net.ParseIP(first) != nil {
				return first
			}
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			if net.ParseIP(xri) != nil {
				return xri
			}
		}
	}

	return directIP
}

// sanitizeInput trims whitespace and strips control characters except tab,
// newline, and carriage return.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// requirePost enforces the method on mutation endpoints.
func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// parseMutationForm parses the form body, writing the error fragment itself.
func parseMutationForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		writeErrorFragment(w, http.StatusBadRequest, "Invalid request format")
		return false
	}
	return true
}

func writeErrorFragment(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(msg) + `</div>`))
}

func writeSuccessFragment(w http.ResponseWriter, trigger, msg string) {
	if trigger != "" {
		w.Header().Set("HX-Trigger", trigger)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">` + template.HTMLEscapeString(msg) + `</div>`))
}

// parseExpenseForm reads the shared fields of create and update forms. The
// returned expense carries no ID.
func parseExpenseForm(r *http.Request) (core.Expense, error) {
	cents, err := core.ParseDecimalToCents(strings.TrimSpace(r.Form.Get("amount")))
	if err != nil {
		return core.Expense{}, fmt.Errorf("invalid amount: %w", err)
	}
	e := core.Expense{
		Amount:      core.Money{Cents: cents},
		Category:    sanitizeInput(r.Form.Get("category")),
		Date:        core.Date(strings.TrimSpace(r.Form.Get("date"))),
		Description: sanitizeInput(r.Form.Get("description")),
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

func parseSalaryForm(r *http.Request) (core.Salary, error) {
	cents, err := core.ParseDecimalToCents(strings.TrimSpace(r.Form.Get("amount")))
	if err != nil {
		return core.Salary{}, fmt.Errorf("invalid amount: %w", err)
	}
	s := core.Salary{
		Amount:      core.Money{Cents: cents},
		Date:        core.Date(strings.TrimSpace(r.Form.Get("date"))),
		Description: sanitizeInput(r.Form.Get("description")),
	}
	if err := s.Validate(); err != nil {
		return core.Salary{}, err
	}
	return s, nil
}

func parseCategoryForm(r *http.Request) (core.Category, error) {
	c := core.Category{
		Name:  sanitizeInput(r.Form.Get("name")),
		Color: sanitizeInput(r.Form.Get("color")),
		Icon:  sanitizeInput(r.Form.Get("icon")),
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	return c, nil
}
