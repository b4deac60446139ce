package fleet

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bezrodnovart03/BnovAuto/internal/models"
)

// MockTelemetryCollection is a mock implementation of db.TelemetryCollection
type MockTelemetryCollection struct {
	mock.Mock
}

func (m *MockTelemetryCollection) InsertTelemetry(ctx context.Context, telemetry models.Telemetry) (primitive.ObjectID, error) {
	args := m.Called(ctx, telemetry)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockTelemetryCollection) FindTelemetry(ctx context.Context) ([]models.Telemetry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Telemetry), args.Error(1)
}

func (m *MockTelemetryCollection) FindTelemetryByVehicleID(ctx context.Context, vehicleID string, start, end *time.Time) ([]models.Telemetry, error) {
	args := m.Called(ctx, vehicleID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Telemetry), args.Error(1)
}

func (m *MockTelemetryCollection) FindLatestTelemetry(ctx context.Context, vehicleID string) (*models.Telemetry, error) {
	args := m.Called(ctx, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Telemetry), args.Error(1)
}

// MockVehicleCollection is a mock implementation of db.VehicleCollection
type MockVehicleCollection struct {
	mock.Mock
}

func (m *MockVehicleCollection) InsertVehicle(ctx context.Context, vehicle models.Vehicle) (primitive.ObjectID, error) {
	args := m.Called(ctx, vehicle)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockVehicleCollection) FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

func (m *MockVehicleCollection) FindVehicles(ctx context.Context) ([]models.Vehicle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Vehicle), args.Error(1)
}

func (m *MockVehicleCollection) FindVehiclesByCompanyID(ctx context.Context, companyID string) ([]models.Vehicle, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Vehicle), args.Error(1)
}

func (m *MockVehicleCollection) ExistsByLicensePlate(ctx context.Context, licensePlate string) (bool, error) {
	args := m.Called(ctx, licensePlate)
	return args.Bool(0), args.Error(1)
}

func (m *MockVehicleCollection) UpdateVehicle(ctx context.Context, id string, vehicle models.Vehicle) error {
	args := m.Called(ctx, id, vehicle)
	return args.Error(0)
}

func (m *MockVehicleCollection) DeleteVehicle(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCompanyCollection is a mock implementation of db.CompanyCollection
type MockCompanyCollection struct {
	mock.Mock
}

func (m *MockCompanyCollection) InsertCompany(ctx context.Context, company models.Company) (primitive.ObjectID, error) {
	args := m.Called(ctx, company)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockCompanyCollection) FindCompanyByID(ctx context.Context, id string) (*models.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

func (m *MockCompanyCollection) FindCompanyByName(ctx context.Context, name string) (*models.Company, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

func (m *MockCompanyCollection) ExistsCompanyByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockCompanyCollection) FindCompanies(ctx context.Context) ([]models.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Company), args.Error(1)
}

func (m *MockCompanyCollection) UpdateCompany(ctx context.Context, id string, company models.Company) error {
	args := m.Called(ctx, id, company)
	return args.Error(0)
}

func (m *MockCompanyCollection) DeleteCompany(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRouteCollection is a mock implementation of db.RouteCollection
type MockRouteCollection struct {
	mock.Mock
}

func (m *MockRouteCollection) InsertRoute(ctx context.Context, route models.Route) (primitive.ObjectID, error) {
	args := m.Called(ctx, route)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockRouteCollection) FindRouteByID(ctx context.Context, id string) (*models.Route, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Route), args.Error(1)
}

func (m *MockRouteCollection) FindRoutes(ctx context.Context) ([]models.Route, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Route), args.Error(1)
}

func (m *MockRouteCollection) FindRoutesByCompanyID(ctx context.Context, companyID string) ([]models.Route, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Route), args.Error(1)
}

func (m *MockRouteCollection) FindRoutesByVehicleID(ctx context.Context, vehicleID string) ([]models.Route, error) {
	args := m.Called(ctx, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Route), args.Error(1)
}

func (m *MockRouteCollection) FindRoutesByDriverID(ctx context.Context, driverID string) ([]models.Route, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Route), args.Error(1)
}

func (m *MockRouteCollection) FindActiveRoutes(ctx context.Context) ([]models.Route, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Route), args.Error(1)
}

func (m *MockRouteCollection) UpdateRoute(ctx context.Context, id string, route models.Route) error {
	args := m.Called(ctx, id, route)
	return args.Error(0)
}

func (m *MockRouteCollection) DeleteRoute(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserCollection is a mock implementation of db.UserCollection
type MockUserCollection struct {
	mock.Mock
}

func (m *MockUserCollection) InsertUser(ctx context.Context, user models.User) (primitive.ObjectID, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockUserCollection) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserCollection) FindUsersByCompanyID(ctx context.Context, companyID string) ([]models.User, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserCollection) FindUsersByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserCollection) UpdateUser(ctx context.Context, id string, user models.User) error {
	args := m.Called(ctx, id, user)
	return args.Error(0)
}

func (m *MockUserCollection) DeleteUser(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserCollection) UpdateLastLogin(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
