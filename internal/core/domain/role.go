package domain

import "strings"

// Role is the closed set of organisational roles. The hierarchy is flat by
// design: one chef and one agent role per département, plus a super admin
// above all of them. The set is fixed and never extended at runtime.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"

	RoleChefJuridique    Role = "CHEF_DEPARTEMENT_JURIDIQUE"
	RoleChefRecouvrement Role = "CHEF_DEPARTEMENT_RECOUVREMENT"
	RoleChefEnquete      Role = "CHEF_DEPARTEMENT_ENQUETE"
	RoleChefFinance      Role = "CHEF_DEPARTEMENT_FINANCE"

	RoleAgentJuridique    Role = "AGENT_JURIDIQUE"
	RoleAgentRecouvrement Role = "AGENT_RECOUVREMENT"
	RoleAgentEnquete      Role = "AGENT_ENQUETE"
	RoleAgentFinance      Role = "AGENT_FINANCE"
)

// authorityPrefix is prepended to role names in JWT authorities and in the
// persisted user documents.
const authorityPrefix = "ROLE_"

// allRoles is the closed enumeration used for exact-match lookup.
var allRoles = map[Role]struct{}{
	RoleSuperAdmin:        {},
	RoleChefJuridique:     {},
	RoleChefRecouvrement:  {},
	RoleChefEnquete:       {},
	RoleChefFinance:       {},
	RoleAgentJuridique:    {},
	RoleAgentRecouvrement: {},
	RoleAgentEnquete:      {},
	RoleAgentFinance:      {},
}

// agentForChef pairs each chef role with the single agent role of its
// département. SUPER_ADMIN has no entry: it is above the pairing.
var agentForChef = map[Role]Role{
	RoleChefJuridique:    RoleAgentJuridique,
	RoleChefRecouvrement: RoleAgentRecouvrement,
	RoleChefEnquete:      RoleAgentEnquete,
	RoleChefFinance:      RoleAgentFinance,
}

// chefForAgent is the inverse pairing.
var chefForAgent = map[Role]Role{
	RoleAgentJuridique:    RoleChefJuridique,
	RoleAgentRecouvrement: RoleChefRecouvrement,
	RoleAgentEnquete:      RoleChefEnquete,
	RoleAgentFinance:      RoleChefFinance,
}

// validationRoles is the allow-list for dossier validation actions.
var validationRoles = map[Role]struct{}{
	RoleSuperAdmin:       {},
	RoleChefJuridique:    {},
	RoleChefRecouvrement: {},
	RoleChefEnquete:      {},
	RoleChefFinance:      {},
}

// RoleFromAuthority maps a raw authority string (e.g. "ROLE_AGENT_JURIDIQUE")
// to a Role. The prefix is optional. Unknown or empty input returns ok=false,
// never an error or panic.
func RoleFromAuthority(raw string) (Role, bool) {
	name := strings.TrimPrefix(strings.TrimSpace(raw), authorityPrefix)
	if name == "" {
		return "", false
	}
	r := Role(name)
	if _, ok := allRoles[r]; !ok {
		return "", false
	}
	return r, true
}

// Authority returns the prefixed authority string for the role.
func (r Role) Authority() string {
	return authorityPrefix + string(r)
}

// IsChef reports whether the role is one of the four département heads.
func (r Role) IsChef() bool {
	_, ok := agentForChef[r]
	return ok
}

// IsAgent reports whether the role is one of the four agent roles.
func (r Role) IsAgent() bool {
	_, ok := chefForAgent[r]
	return ok
}

// CanValidate reports whether the role may validate, reject or reset
// dossier validations.
func (r Role) CanValidate() bool {
	_, ok := validationRoles[r]
	return ok
}

// AgentRole returns the agent role paired with a chef role. For SUPER_ADMIN
// there is no single pairing; callers use AgentRoles instead.
func (r Role) AgentRole() (Role, bool) {
	a, ok := agentForChef[r]
	return a, ok
}

// ChefRole returns the chef role paired with an agent role.
func (r Role) ChefRole() (Role, bool) {
	c, ok := chefForAgent[r]
	return c, ok
}

// AgentRoles returns the set of agent roles visible to the given role: the
// paired agent role for a chef, every agent role for SUPER_ADMIN, nothing
// otherwise.
func (r Role) AgentRoles() []Role {
	if r == RoleSuperAdmin {
		return []Role{RoleAgentJuridique, RoleAgentRecouvrement, RoleAgentEnquete, RoleAgentFinance}
	}
	if a, ok := agentForChef[r]; ok {
		return []Role{a}
	}
	return nil
}
