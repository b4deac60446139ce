package fleet

import (
	"context"
	"errors"

	"github.com/bezrodnovart03/BnovAuto/internal/db"
	"github.com/bezrodnovart03/BnovAuto/internal/models"
)

// VehicleService manages the vehicle registry and exposes the per-vehicle
// telemetry statistics window.
type VehicleService struct {
	vehicles  db.VehicleCollection
	companies db.CompanyCollection
	telemetry *TelemetryService
}

// NewVehicleService creates a vehicle service over the given collections.
func NewVehicleService(vehicles db.VehicleCollection, companies db.CompanyCollection, telemetry *TelemetryService) *VehicleService {
	return &VehicleService{vehicles: vehicles, companies: companies, telemetry: telemetry}
}

// Create registers a vehicle. The license plate must be unused anywhere in
// the system and the company must resolve. Status defaults to ACTIVE.
func (s *VehicleService) Create(ctx context.Context, vehicle models.Vehicle) (*models.Vehicle, error) {
	taken, err := s.vehicles.ExistsByLicensePlate(ctx, vehicle.LicensePlate)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, AlreadyExists(KindVehicle, "license plate", vehicle.LicensePlate)
	}

	company, err := s.resolveCompany(ctx, vehicle.CompanyID.Hex())
	if err != nil {
		return nil, err
	}
	vehicle.CompanyID = company.ID
	if vehicle.Status == "" {
		vehicle.Status = models.VehicleStatusActive
	}

	id, err := s.vehicles.InsertVehicle(ctx, vehicle)
	if err != nil {
		return nil, err
	}
	vehicle.ID = id
	return &vehicle, nil
}

// Update applies changes to a vehicle. A changed license plate is re-checked
// for global uniqueness; a changed company reference must resolve.
func (s *VehicleService) Update(ctx context.Context, id string, details models.Vehicle) (*models.Vehicle, error) {
	vehicle, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	vehicle.Name = details.Name
	vehicle.Model = details.Model

	if details.LicensePlate != vehicle.LicensePlate {
		taken, err := s.vehicles.ExistsByLicensePlate(ctx, details.LicensePlate)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, AlreadyExists(KindVehicle, "license plate", details.LicensePlate)
		}
		vehicle.LicensePlate = details.LicensePlate
	}

	vehicle.Year = details.Year
	vehicle.Status = details.Status

	if !details.CompanyID.IsZero() && details.CompanyID != vehicle.CompanyID {
		company, err := s.resolveCompany(ctx, details.CompanyID.Hex())
		if err != nil {
			return nil, err
		}
		vehicle.CompanyID = company.ID
	}

	if err := s.vehicles.UpdateVehicle(ctx, id, *vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

// ByID returns a vehicle by id.
func (s *VehicleService) ByID(ctx context.Context, id string) (*models.Vehicle, error) {
	vehicle, err := s.vehicles.FindVehicleByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, NotFound(KindVehicle, id)
		}
		return nil, err
	}
	return vehicle, nil
}

// All returns every vehicle in the system.
func (s *VehicleService) All(ctx context.Context) ([]models.Vehicle, error) {
	return s.vehicles.FindVehicles(ctx)
}

// ByCompany returns the vehicles owned by a company.
func (s *VehicleService) ByCompany(ctx context.Context, companyID string) ([]models.Vehicle, error) {
	return s.vehicles.FindVehiclesByCompanyID(ctx, companyID)
}

// Delete removes a vehicle by id. Its telemetry is not cascaded.
func (s *VehicleService) Delete(ctx context.Context, id string) error {
	if err := s.vehicles.DeleteVehicle(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return NotFound(KindVehicle, id)
		}
		return err
	}
	return nil
}

// Statistics summarizes a vehicle's telemetry over an optional time window.
// The bounds follow the Range contract; the result follows Summarize.
func (s *VehicleService) Statistics(ctx context.Context, vehicleID, start, end string) (map[string]interface{}, error) {
	records, err := s.telemetry.Range(ctx, vehicleID, start, end)
	if err != nil {
		return nil, err
	}
	return Summarize(records), nil
}

func (s *VehicleService) resolveCompany(ctx context.Context, companyID string) (*models.Company, error) {
	company, err := s.companies.FindCompanyByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, NotFound(KindCompany, companyID)
		}
		return nil, err
	}
	return company, nil
}
