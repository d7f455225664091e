package policy

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/astro-web3/jwt-validator/internal/domain/token"
)

const (
	ClaimName = "Name"
	ClaimRole = "Role"
	ClaimSeed = "Seed"

	MaxNameLength = 256
)

// Role values accepted in the Role claim.
const (
	RoleAdmin    = "Admin"
	RoleMember   = "Member"
	RoleExternal = "External"
)

// Rule names a single business rule.
type Rule string

const (
	RuleCardinality Rule = "cardinality"
	RuleName        Rule = "name"
	RuleRole        Rule = "role"
	RuleSeed        Rule = "seed"
)

// ViolationKind says how a rule failed.
type ViolationKind string

const (
	KindMissing      ViolationKind = "missing"
	KindTypeMismatch ViolationKind = "type_mismatch"
	KindParseError   ViolationKind = "parse_error"
	KindOutOfRange   ViolationKind = "out_of_range"
	KindNotAllowed   ViolationKind = "not_allowed"
)

// Violation describes one failed rule. Detail is meant for server-side
// diagnostics only.
type Violation struct {
	Rule   Rule
	Kind   ViolationKind
	Detail string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s (%s)", v.Rule, v.Kind, v.Detail)
}

var requiredClaims = []string{ClaimName, ClaimRole, ClaimSeed}

var allowedRoles = map[string]struct{}{
	RoleAdmin:    {},
	RoleMember:   {},
	RoleExternal: {},
}

// Policy evaluates the business rules over a verified claim set. It has no
// state and never mutates its input.
type Policy struct{}

func New() Policy {
	return Policy{}
}

// IsValid reports whether every rule holds.
func (p Policy) IsValid(claims token.ClaimSet) bool {
	return len(p.Evaluate(claims)) == 0
}

// Evaluate runs every rule and returns all violations, in rule order.
func (p Policy) Evaluate(claims token.ClaimSet) []Violation {
	var violations []Violation
	for _, check := range []func(token.ClaimSet) *Violation{
		checkCardinality,
		checkName,
		checkRole,
		checkSeed,
	} {
		if v := check(claims); v != nil {
			violations = append(violations, *v)
		}
	}
	return violations
}

func checkCardinality(claims token.ClaimSet) *Violation {
	for _, name := range requiredClaims {
		if _, ok := claims[name]; !ok {
			return &Violation{Rule: RuleCardinality, Kind: KindMissing, Detail: "missing claim " + name}
		}
	}
	if len(claims) != len(requiredClaims) {
		var extra []string
		for name := range claims {
			if !isRequired(name) {
				extra = append(extra, name)
			}
		}
		return &Violation{
			Rule:   RuleCardinality,
			Kind:   KindNotAllowed,
			Detail: fmt.Sprintf("unexpected claims %v", extra),
		}
	}
	return nil
}

func isRequired(name string) bool {
	for _, r := range requiredClaims {
		if r == name {
			return true
		}
	}
	return false
}

func checkName(claims token.ClaimSet) *Violation {
	value, ok := claims[ClaimName]
	if !ok || value.IsNull() {
		return &Violation{Rule: RuleName, Kind: KindMissing, Detail: "Name is absent"}
	}
	name, ok := value.AsString()
	if !ok {
		return &Violation{Rule: RuleName, Kind: KindTypeMismatch, Detail: "Name is a " + value.Kind().String()}
	}
	if n := utf8.RuneCountInString(name); n > MaxNameLength {
		return &Violation{
			Rule:   RuleName,
			Kind:   KindOutOfRange,
			Detail: fmt.Sprintf("Name has %d characters, max %d", n, MaxNameLength),
		}
	}
	if strings.ContainsAny(name, "0123456789") {
		return &Violation{Rule: RuleName, Kind: KindNotAllowed, Detail: "Name contains a digit"}
	}
	return nil
}

func checkRole(claims token.ClaimSet) *Violation {
	value, ok := claims[ClaimRole]
	if !ok || value.IsNull() {
		return &Violation{Rule: RuleRole, Kind: KindMissing, Detail: "Role is absent"}
	}
	role, ok := value.AsString()
	if !ok {
		return &Violation{Rule: RuleRole, Kind: KindTypeMismatch, Detail: "Role is a " + value.Kind().String()}
	}
	if _, allowed := allowedRoles[role]; !allowed {
		return &Violation{Rule: RuleRole, Kind: KindNotAllowed, Detail: fmt.Sprintf("Role %q", role)}
	}
	return nil
}

func checkSeed(claims token.ClaimSet) *Violation {
	value, ok := claims[ClaimSeed]
	if !ok || value.IsNull() {
		return &Violation{Rule: RuleSeed, Kind: KindMissing, Detail: "Seed is absent"}
	}
	if value.Kind() == token.KindOther {
		return &Violation{Rule: RuleSeed, Kind: KindTypeMismatch, Detail: "Seed is a " + value.Kind().String()}
	}
	seed, err := strconv.ParseInt(value.String(), 10, 32)
	if err != nil {
		return &Violation{Rule: RuleSeed, Kind: KindParseError, Detail: err.Error()}
	}
	if !IsPrime(seed) {
		return &Violation{Rule: RuleSeed, Kind: KindNotAllowed, Detail: fmt.Sprintf("Seed %d is not prime", seed)}
	}
	return nil
}
