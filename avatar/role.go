package avatar

// Role is fixed when an avatar is created and never renegotiated.
type Role int

const (
	RoleObserver Role = iota
	RoleOwner
)

func (r Role) String() string {
	if r == RoleOwner {
		return "owner"
	}
	return "observer"
}

// Resolver answers whether this process is the participant behind id.
// The session layer guarantees every avatar has exactly one owner.
type Resolver interface {
	IsLocal(id uint) bool
}

// ResolverFunc adapts a plain function to Resolver.
type ResolverFunc func(id uint) bool

func (f ResolverFunc) IsLocal(id uint) bool { return f(id) }

// ResolveRole decides the role of the avatar with the given id.
func ResolveRole(r Resolver, id uint) Role {
	if r != nil && r.IsLocal(id) {
		return RoleOwner
	}
	return RoleObserver
}
