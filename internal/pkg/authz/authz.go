package authz

import (
	_ "embed"
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"gostockflow/internal/domain"
	apperror "gostockflow/internal/errors"
)

//go:embed model.conf
var modelText string

const (
	ObjectStockRequest   = "stock_request"
	ObjectConsolidation  = "consolidation"
	ObjectRecommendation = "recommendation"
	ObjectReport         = "report"
	ObjectAuditLog       = "audit_log"
)

const (
	ActionCreate  = "create"
	ActionView    = "view"
	ActionViewOwn = "view_own"
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// Authorizer decide se um ator pode executar uma ação sobre um objeto.
type Authorizer interface {
	Can(role domain.Role, object, action string) bool
	Authorize(actor domain.ActorContext, object, action string) error
}

// CasbinAuthorizer aplica o modelo RBAC embutido com as políticas fixas do sistema.
type CasbinAuthorizer struct {
	enforcer *casbin.SyncedEnforcer
}

// NewCasbinAuthorizer monta o enforcer em memória com as políticas padrão.
func NewCasbinAuthorizer() (*CasbinAuthorizer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("falha ao carregar modelo RBAC: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("falha ao criar enforcer: %w", err)
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	return &CasbinAuthorizer{enforcer: enforcer}, nil
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	staff := domain.RoleStaff.Subject()
	manager := domain.RoleManager.Subject()
	auditor := domain.RoleAuditor.Subject()
	admin := domain.RoleAdmin.Subject()

	policies := [][]string{
		{staff, ObjectStockRequest, ActionCreate},
		{staff, ObjectStockRequest, ActionViewOwn},

		{manager, ObjectStockRequest, ActionView},
		{manager, ObjectStockRequest, ActionApprove},
		{manager, ObjectStockRequest, ActionReject},
		{manager, ObjectConsolidation, ActionView},
		{manager, ObjectRecommendation, ActionView},
		{manager, ObjectReport, ActionView},

		{auditor, ObjectStockRequest, ActionView},
		{auditor, ObjectReport, ActionView},
		{auditor, ObjectAuditLog, ActionView},
	}
	if _, err := enforcer.AddPolicies(policies); err != nil {
		return fmt.Errorf("falha ao registrar políticas: %w", err)
	}

	groupings := [][]string{
		{manager, staff},
		{admin, manager},
		{admin, auditor},
	}
	if _, err := enforcer.AddGroupingPolicies(groupings); err != nil {
		return fmt.Errorf("falha ao registrar herança de papéis: %w", err)
	}
	return nil
}

// Can retorna false para papéis fora do conjunto fechado ou erro do enforcer.
func (a *CasbinAuthorizer) Can(role domain.Role, object, action string) bool {
	if !role.Valid() {
		return false
	}
	allowed, err := a.enforcer.Enforce(role.Subject(), object, action)
	return err == nil && allowed
}

func (a *CasbinAuthorizer) Authorize(actor domain.ActorContext, object, action string) error {
	if actor.UserID <= 0 {
		return apperror.NewUnauthorizedError("ator sem identificação")
	}
	if !a.Can(actor.Role, object, action) {
		return apperror.NewForbiddenError(fmt.Sprintf("papel %q não pode executar %s em %s", actor.Role, action, object))
	}
	return nil
}
