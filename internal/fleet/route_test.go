package fleet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bezrodnovart03/BnovAuto/internal/db"
	"github.com/bezrodnovart03/BnovAuto/internal/geo"
	"github.com/bezrodnovart03/BnovAuto/internal/models"
)

func newRouteServiceForTest() (*RouteService, *MockRouteCollection, *MockCompanyCollection, *MockVehicleCollection, *MockUserCollection) {
	mockRoutes := new(MockRouteCollection)
	mockCompanies := new(MockCompanyCollection)
	mockVehicles := new(MockVehicleCollection)
	mockUsers := new(MockUserCollection)
	return NewRouteService(mockRoutes, mockCompanies, mockVehicles, mockUsers), mockRoutes, mockCompanies, mockVehicles, mockUsers
}

func TestRouteService_BuildBetween(t *testing.T) {
	service, mockRoutes, mockCompanies, _, _ := newRouteServiceForTest()

	companyID := primitive.NewObjectID()
	company := &models.Company{ID: companyID}
	routeID := primitive.NewObjectID()

	mockCompanies.On("FindCompanyByID", mock.Anything, companyID.Hex()).Return(company, nil)
	mockRoutes.On("InsertRoute", mock.Anything, mock.AnythingOfType("models.Route")).Return(routeID, nil)

	route, err := service.BuildBetween(context.Background(), "Depot run", companyID.Hex(),
		20.0, 10.0, 21.0, 11.0, []float64{20.5, 10.5})

	assert.NoError(t, err)
	assert.Equal(t, routeID, route.ID)
	assert.Equal(t, companyID, route.CompanyID)
	assert.Equal(t, 20.0, route.StartPoint.Lat())
	assert.Equal(t, 10.0, route.StartPoint.Lng())
	assert.Equal(t, 21.0, route.EndPoint.Lat())
	assert.Equal(t, [][]float64{
		{10.0, 20.0},
		{10.5, 20.5},
		{11.0, 21.0},
	}, route.Path.Coordinates)
	mockRoutes.AssertExpectations(t)
}

func TestRouteService_BuildBetween_CompanyNotFound(t *testing.T) {
	service, mockRoutes, mockCompanies, _, _ := newRouteServiceForTest()

	mockCompanies.On("FindCompanyByID", mock.Anything, "missing").Return(nil, db.ErrNotFound)

	_, err := service.BuildBetween(context.Background(), "Depot run", "missing", 0, 0, 1, 1, nil)

	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "Company not found with id: missing")
	mockRoutes.AssertNotCalled(t, "InsertRoute", mock.Anything, mock.Anything)
}

func TestRouteService_BuildBetween_InvalidGeometry(t *testing.T) {
	service, mockRoutes, mockCompanies, _, _ := newRouteServiceForTest()

	companyID := primitive.NewObjectID()
	mockCompanies.On("FindCompanyByID", mock.Anything, companyID.Hex()).Return(&models.Company{ID: companyID}, nil)

	_, err := service.BuildBetween(context.Background(), "Depot run", companyID.Hex(),
		0, 0, 1, 1, []float64{20.5})

	assert.ErrorIs(t, err, geo.ErrInvalidGeometry)
	// Nothing is persisted when the waypoints fail validation.
	mockRoutes.AssertNotCalled(t, "InsertRoute", mock.Anything, mock.Anything)
}

func TestRouteService_Update_Partial(t *testing.T) {
	service, mockRoutes, _, _, _ := newRouteServiceForTest()

	routeID := primitive.NewObjectID()
	existing := &models.Route{
		ID:         routeID,
		Name:       "Old name",
		StartPoint: geo.NewPoint(1, 2),
		Status:     "ACTIVE",
	}

	mockRoutes.On("FindRouteByID", mock.Anything, routeID.Hex()).Return(existing, nil)
	mockRoutes.On("UpdateRoute", mock.Anything, routeID.Hex(), mock.AnythingOfType("models.Route")).Return(nil)

	updated, err := service.Update(context.Background(), routeID.Hex(), models.Route{Name: "New name"})

	assert.NoError(t, err)
	assert.Equal(t, "New name", updated.Name)
	// Absent geometry and status leave the stored values in place.
	assert.Equal(t, 1.0, updated.StartPoint.Lat())
	assert.Equal(t, "ACTIVE", updated.Status)
}

func TestRouteService_Assign(t *testing.T) {
	service, mockRoutes, _, mockVehicles, mockUsers := newRouteServiceForTest()

	routeID := primitive.NewObjectID()
	vehicleID := primitive.NewObjectID()
	driverID := primitive.NewObjectID()

	mockRoutes.On("FindRouteByID", mock.Anything, routeID.Hex()).Return(&models.Route{ID: routeID}, nil)
	mockVehicles.On("FindVehicleByID", mock.Anything, vehicleID.Hex()).Return(&models.Vehicle{ID: vehicleID}, nil)
	mockUsers.On("FindUserByID", mock.Anything, driverID.Hex()).Return(&models.User{ID: driverID}, nil)
	mockRoutes.On("UpdateRoute", mock.Anything, routeID.Hex(), mock.AnythingOfType("models.Route")).Return(nil)

	route, err := service.Assign(context.Background(), routeID.Hex(), vehicleID.Hex(), driverID.Hex())

	assert.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{vehicleID}, route.VehicleIDs)
	assert.Equal(t, []primitive.ObjectID{driverID}, route.DriverIDs)
}

func TestRouteService_Assign_DuplicateVehicle(t *testing.T) {
	service, mockRoutes, _, mockVehicles, _ := newRouteServiceForTest()

	routeID := primitive.NewObjectID()
	vehicleID := primitive.NewObjectID()
	existing := &models.Route{ID: routeID, VehicleIDs: []primitive.ObjectID{vehicleID}}

	mockRoutes.On("FindRouteByID", mock.Anything, routeID.Hex()).Return(existing, nil)
	mockVehicles.On("FindVehicleByID", mock.Anything, vehicleID.Hex()).Return(&models.Vehicle{ID: vehicleID}, nil)
	mockRoutes.On("UpdateRoute", mock.Anything, routeID.Hex(), mock.AnythingOfType("models.Route")).Return(nil)

	route, err := service.Assign(context.Background(), routeID.Hex(), vehicleID.Hex(), "")

	assert.NoError(t, err)
	assert.Len(t, route.VehicleIDs, 1)
}

func TestRouteService_Assign_DriverNotFound(t *testing.T) {
	service, mockRoutes, _, _, mockUsers := newRouteServiceForTest()

	routeID := primitive.NewObjectID()
	mockRoutes.On("FindRouteByID", mock.Anything, routeID.Hex()).Return(&models.Route{ID: routeID}, nil)
	mockUsers.On("FindUserByID", mock.Anything, "missing").Return(nil, db.ErrNotFound)

	_, err := service.Assign(context.Background(), routeID.Hex(), "", "missing")

	assert.True(t, IsNotFound(err))
	mockRoutes.AssertNotCalled(t, "UpdateRoute", mock.Anything, mock.Anything, mock.Anything)
}

func TestRouteService_Delete_NotFound(t *testing.T) {
	service, mockRoutes, _, _, _ := newRouteServiceForTest()

	mockRoutes.On("DeleteRoute", mock.Anything, "missing").Return(db.ErrNotFound)

	err := service.Delete(context.Background(), "missing")
	assert.True(t, IsNotFound(err))
}
