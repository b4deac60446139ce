// Package access holds the caller/role authorization policy as one explicit
// decision table, evaluated before any retrieval or mutation runs.
package access

import (
	"errors"

	"github.com/bezrodnovart03/BnovAuto/internal/models"
)

// ErrAccessDenied is returned when no allow rule matches the caller. It is
// modeled separately from not-found so the transport can choose its mapping.
var ErrAccessDenied = errors.New("access denied")

// Caller identifies the authenticated principal of a request. It is derived
// per request and never persisted.
type Caller struct {
	UserID    string
	CompanyID string
	Roles     []models.Role
}

// HasRole reports whether the caller carries the given role tag.
func (c Caller) HasRole(role models.Role) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Operation names an authorizable action.
type Operation string

const (
	OpListVehicles       Operation = "vehicles.list"
	OpReadVehicle        Operation = "vehicles.read"
	OpWriteVehicle       Operation = "vehicles.write"
	OpVehiclesByCompany  Operation = "vehicles.by_company"
	OpVehicleTelemetry   Operation = "vehicles.telemetry"
	OpVehicleStatistics  Operation = "vehicles.statistics"
	OpRecordTelemetry    Operation = "telemetry.record"
	OpListTelemetry      Operation = "telemetry.list"
	OpListRoutes         Operation = "routes.list"
	OpReadRoute          Operation = "routes.read"
	OpWriteRoute         Operation = "routes.write"
	OpRoutesByCompany    Operation = "routes.by_company"
	OpRoutesByVehicle    Operation = "routes.by_vehicle"
	OpRoutesByDriver     Operation = "routes.by_driver"
	OpActiveRoutes       Operation = "routes.active"
	OpAssignRoute        Operation = "routes.assign"
	OpListUsers          Operation = "users.list"
	OpReadUser           Operation = "users.read"
	OpUpdateUser         Operation = "users.update"
	OpDeleteUser         Operation = "users.delete"
	OpUsersByCompany     Operation = "users.by_company"
	OpUsersByRole        Operation = "users.by_role"
	OpListCompanies      Operation = "companies.list"
	OpReadCompany        Operation = "companies.read"
	OpWriteCompany       Operation = "companies.write"
)

// Target describes the resource a request addresses. SubjectUserID is the
// user id named by the request path, when there is one; it is the only
// field the DRIVER self rule looks at. There is no transitive check: a
// DRIVER is not verified to be assigned to the vehicle or route they query.
type Target struct {
	SubjectUserID string
}

// rule is one row of the decision table. allowSelf permits any caller whose
// identity equals the target subject, regardless of role.
type rule struct {
	director  bool
	support   bool
	driver    bool
	allowSelf bool
}

var table = map[Operation]rule{
	OpListVehicles:      {director: true, support: true},
	OpReadVehicle:       {director: true, support: true, driver: true},
	OpWriteVehicle:      {director: true, support: true},
	OpVehiclesByCompany: {director: true, support: true},
	OpVehicleTelemetry:  {director: true, support: true, driver: true},
	OpVehicleStatistics: {director: true, support: true},
	OpRecordTelemetry:   {director: true, support: true, driver: true},
	OpListTelemetry:     {director: true, support: true},
	OpListRoutes:        {director: true, support: true},
	OpReadRoute:         {director: true, support: true, driver: true},
	OpWriteRoute:        {director: true, support: true},
	OpRoutesByCompany:   {director: true, support: true},
	OpRoutesByVehicle:   {director: true, support: true, driver: true},
	OpRoutesByDriver:    {director: true, support: true, allowSelf: true},
	OpActiveRoutes:      {director: true, support: true},
	OpAssignRoute:       {director: true, support: true},
	OpListUsers:         {director: true, support: true},
	OpReadUser:          {director: true, support: true, allowSelf: true},
	OpUpdateUser:        {director: true, support: true, allowSelf: true},
	OpDeleteUser:        {director: true, support: true},
	OpUsersByCompany:    {director: true, support: true},
	OpUsersByRole:       {director: true, support: true},
	OpListCompanies:     {director: true, support: true},
	OpReadCompany:       {director: true, support: true, driver: true},
	OpWriteCompany:      {director: true, support: true},
}

// Evaluate returns nil when the caller may perform the operation on the
// target, ErrAccessDenied otherwise. Unknown operations are denied.
func Evaluate(caller Caller, op Operation, target Target) error {
	r, ok := table[op]
	if !ok {
		return ErrAccessDenied
	}
	if r.director && caller.HasRole(models.RoleDirector) {
		return nil
	}
	if r.support && caller.HasRole(models.RoleSupport) {
		return nil
	}
	if r.driver && caller.HasRole(models.RoleDriver) {
		return nil
	}
	if r.allowSelf && target.SubjectUserID != "" && target.SubjectUserID == caller.UserID {
		return nil
	}
	return ErrAccessDenied
}
