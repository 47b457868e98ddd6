package domain

import "testing"

func TestRoleFromAuthority_RoundTrip(t *testing.T) {
	for r := range allRoles {
		got, ok := RoleFromAuthority(r.Authority())
		if !ok {
			t.Fatalf("authority %q not recognised", r.Authority())
		}
		if got != r {
			t.Errorf("round trip: want %q, got %q", r, got)
		}
	}
}

func TestRoleFromAuthority_WithoutPrefix(t *testing.T) {
	got, ok := RoleFromAuthority("AGENT_JURIDIQUE")
	if !ok || got != RoleAgentJuridique {
		t.Errorf("expected AGENT_JURIDIQUE, got %q ok=%v", got, ok)
	}
}

func TestRoleFromAuthority_Unknown(t *testing.T) {
	for _, raw := range []string{"", "ROLE_", "ROLE_UNKNOWN", "chef", "ROLE_AGENT_JURIDIQUE_X"} {
		if got, ok := RoleFromAuthority(raw); ok {
			t.Errorf("input %q: expected no match, got %q", raw, got)
		}
	}
}

func TestRolePairing_Bijective(t *testing.T) {
	for chef, agent := range agentForChef {
		back, ok := agent.ChefRole()
		if !ok || back != chef {
			t.Errorf("pairing not bijective: %q -> %q -> %q", chef, agent, back)
		}
	}
	if len(agentForChef) != len(chefForAgent) {
		t.Errorf("pairing maps differ in size: %d vs %d", len(agentForChef), len(chefForAgent))
	}
	if _, ok := RoleSuperAdmin.AgentRole(); ok {
		t.Error("SUPER_ADMIN must not pair with a single agent role")
	}
}

func TestCanValidate(t *testing.T) {
	cases := []struct {
		role Role
		want bool
	}{
		{RoleSuperAdmin, true},
		{RoleChefJuridique, true},
		{RoleChefRecouvrement, true},
		{RoleChefEnquete, true},
		{RoleChefFinance, true},
		{RoleAgentJuridique, false},
		{RoleAgentRecouvrement, false},
		{RoleAgentEnquete, false},
		{RoleAgentFinance, false},
	}
	for _, tc := range cases {
		if got := tc.role.CanValidate(); got != tc.want {
			t.Errorf("%q.CanValidate() = %v, want %v", tc.role, got, tc.want)
		}
	}
}

func TestAgentRoles(t *testing.T) {
	if got := RoleSuperAdmin.AgentRoles(); len(got) != 4 {
		t.Errorf("SUPER_ADMIN must see all 4 agent roles, got %d", len(got))
	}
	if got := RoleChefEnquete.AgentRoles(); len(got) != 1 || got[0] != RoleAgentEnquete {
		t.Errorf("CHEF_ENQUETE must see exactly AGENT_ENQUETE, got %v", got)
	}
	if got := RoleAgentFinance.AgentRoles(); got != nil {
		t.Errorf("agent role must see no agent roles, got %v", got)
	}
}
