package fleet

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bezrodnovart03/BnovAuto/internal/db"
	"github.com/bezrodnovart03/BnovAuto/internal/geo"
	"github.com/bezrodnovart03/BnovAuto/internal/models"
)

// RouteService builds and manages routes. BuildBetween is the only
// construction path that derives the full geometry; Create and Update are
// field-level passthrough and perform no cross-field consistency checks.
type RouteService struct {
	routes    db.RouteCollection
	companies db.CompanyCollection
	vehicles  db.VehicleCollection
	users     db.UserCollection
}

// NewRouteService creates a route service over the given collections.
func NewRouteService(routes db.RouteCollection, companies db.CompanyCollection, vehicles db.VehicleCollection, users db.UserCollection) *RouteService {
	return &RouteService{routes: routes, companies: companies, vehicles: vehicles, users: users}
}

// BuildBetween creates a route running from a start point through the given
// waypoints to an end point. Waypoints are a flat lat/lng sequence. Fails
// with NotFound(Company) if the company does not resolve and propagates
// geo.ErrInvalidGeometry from path construction. Nothing is persisted until
// all inputs validate.
func (s *RouteService) BuildBetween(ctx context.Context, name, companyID string, startLat, startLng, endLat, endLng float64, waypoints []float64) (*models.Route, error) {
	company, err := s.resolveCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	startPoint := geo.NewPoint(startLat, startLng)
	endPoint := geo.NewPoint(endLat, endLng)
	path, err := geo.NewPath(startPoint, endPoint, waypoints)
	if err != nil {
		return nil, err
	}

	route := models.Route{
		CompanyID:  company.ID,
		Name:       name,
		StartPoint: startPoint,
		EndPoint:   endPoint,
		Path:       path,
		Status:     "ACTIVE",
	}
	id, err := s.routes.InsertRoute(ctx, route)
	if err != nil {
		return nil, err
	}
	route.ID = id
	return &route, nil
}

// Create persists a route as given, resolving only the company reference.
// Geometry fields are stored piecewise without consistency checks.
func (s *RouteService) Create(ctx context.Context, route models.Route) (*models.Route, error) {
	if !route.CompanyID.IsZero() {
		if _, err := s.resolveCompany(ctx, route.CompanyID.Hex()); err != nil {
			return nil, err
		}
	}
	id, err := s.routes.InsertRoute(ctx, route)
	if err != nil {
		return nil, err
	}
	route.ID = id
	return &route, nil
}

// Update applies field-level changes to a route. Geometry fields are
// replaced only when present in the details and no cross-field check is
// made; a changed company reference must resolve.
func (s *RouteService) Update(ctx context.Context, id string, details models.Route) (*models.Route, error) {
	route, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	route.Name = details.Name
	if !details.CompanyID.IsZero() && details.CompanyID != route.CompanyID {
		company, err := s.resolveCompany(ctx, details.CompanyID.Hex())
		if err != nil {
			return nil, err
		}
		route.CompanyID = company.ID
	}
	if details.StartPoint.Type != "" {
		route.StartPoint = details.StartPoint
	}
	if details.EndPoint.Type != "" {
		route.EndPoint = details.EndPoint
	}
	if details.Path.Type != "" {
		route.Path = details.Path
	}
	if details.Status != "" {
		route.Status = details.Status
	}

	if err := s.routes.UpdateRoute(ctx, id, *route); err != nil {
		return nil, err
	}
	return route, nil
}

// Assign attaches a vehicle and/or a driver to a route. Each reference is
// optional but must resolve when given.
func (s *RouteService) Assign(ctx context.Context, id, vehicleID, driverID string) (*models.Route, error) {
	route, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if vehicleID != "" {
		vehicle, err := s.vehicles.FindVehicleByID(ctx, vehicleID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return nil, NotFound(KindVehicle, vehicleID)
			}
			return nil, err
		}
		if !containsID(route.VehicleIDs, vehicle.ID) {
			route.VehicleIDs = append(route.VehicleIDs, vehicle.ID)
		}
	}
	if driverID != "" {
		driver, err := s.users.FindUserByID(ctx, driverID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return nil, NotFound(KindUser, driverID)
			}
			return nil, err
		}
		if !containsID(route.DriverIDs, driver.ID) {
			route.DriverIDs = append(route.DriverIDs, driver.ID)
		}
	}

	if err := s.routes.UpdateRoute(ctx, id, *route); err != nil {
		return nil, err
	}
	return route, nil
}

// ByID returns a route by id.
func (s *RouteService) ByID(ctx context.Context, id string) (*models.Route, error) {
	route, err := s.routes.FindRouteByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, NotFound(KindRoute, id)
		}
		return nil, err
	}
	return route, nil
}

// All returns every route in the system.
func (s *RouteService) All(ctx context.Context) ([]models.Route, error) {
	return s.routes.FindRoutes(ctx)
}

// ByCompany returns the routes owned by a company.
func (s *RouteService) ByCompany(ctx context.Context, companyID string) ([]models.Route, error) {
	return s.routes.FindRoutesByCompanyID(ctx, companyID)
}

// ByVehicle returns the routes a vehicle is assigned to.
func (s *RouteService) ByVehicle(ctx context.Context, vehicleID string) ([]models.Route, error) {
	return s.routes.FindRoutesByVehicleID(ctx, vehicleID)
}

// ByDriver returns the routes a driver is assigned to.
func (s *RouteService) ByDriver(ctx context.Context, driverID string) ([]models.Route, error) {
	return s.routes.FindRoutesByDriverID(ctx, driverID)
}

// Active returns the routes with status ACTIVE.
func (s *RouteService) Active(ctx context.Context) ([]models.Route, error) {
	return s.routes.FindActiveRoutes(ctx)
}

// Delete removes a route by id.
func (s *RouteService) Delete(ctx context.Context, id string) error {
	if err := s.routes.DeleteRoute(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return NotFound(KindRoute, id)
		}
		return err
	}
	return nil
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func (s *RouteService) resolveCompany(ctx context.Context, companyID string) (*models.Company, error) {
	company, err := s.companies.FindCompanyByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, NotFound(KindCompany, companyID)
		}
		return nil, err
	}
	return company, nil
}
