package domain

import "strings"

// Role representa o papel de um usuário no sistema. O conjunto é fechado:
// qualquer valor fora das constantes abaixo é inválido.
type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleManager Role = "Manager"
	RoleStaff   Role = "Staff"
	RoleAuditor Role = "Auditor"
)

// Roles lista todos os papéis válidos.
func Roles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleStaff, RoleAuditor}
}

// ParseRole converte uma string (sem diferenciar maiúsculas) em Role.
func ParseRole(value string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "admin":
		return RoleAdmin, true
	case "manager":
		return RoleManager, true
	case "staff":
		return RoleStaff, true
	case "auditor":
		return RoleAuditor, true
	default:
		return "", false
	}
}

// Subject retorna o sujeito usado pelo autorizador (casbin) para o papel.
func (r Role) Subject() string {
	switch r {
	case RoleAdmin:
		return "role:admin"
	case RoleManager:
		return "role:manager"
	case RoleStaff:
		return "role:staff"
	case RoleAuditor:
		return "role:auditor"
	default:
		return ""
	}
}

// Valid informa se o papel pertence ao conjunto fechado.
func (r Role) Valid() bool {
	return r.Subject() != ""
}

// ActorContext identifica quem executa uma operação. É passado explicitamente
// para cada operação de serviço em vez de ser lido de estado global de sessão.
type ActorContext struct {
	UserID int64 `json:"user_id"`
	Role   Role  `json:"role"`
}
