package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-favourites/internal/render"
	"github.com/i474232898/weather-favourites/internal/weather"
)

var validate = validator.New()

// User-facing messages for error kinds that carry no useful text of their own.
const (
	msgNoLocation    = "You currently have no location. Please set one in the location page."
	msgNotFound      = "The location you searched for returned no results. Please try another location."
	msgOffline       = "It appears you aren't connected to the internet or something has gone wrong. Please ensure you have a stable internet connection."
	msgProvider      = "Something went wrong retrieving your forecast from the Met Office. Please try again later."
	msgAlreadyActive = "This favourite is already your current location."
	msgCachedUsed    = "Sorry, there appears to be a problem with your internet connection. Please try again when you have a stable connection. Your forecast has been set to this favourites most recently saved forecast."
)

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/forecast", func(c *fiber.Ctx) error {
		var q forecastQuery
		q.Format = c.Query("format", "json")
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		view, err := render.FromSession(service.Snapshot(), service.Now())
		if err != nil {
			return toHTTPError(err)
		}

		if q.Format == "text" {
			return c.SendString(view.Text())
		}
		return c.JSON(view)
	})

	v1.Post("/forecast/refresh", func(c *fiber.Ctx) error {
		if _, err := service.Refresh(c.UserContext()); err != nil {
			return toHTTPError(err)
		}
		return sendView(c, service)
	})

	v1.Put("/forecast/selection", func(c *fiber.Ctx) error {
		var req selectionRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}

		if req.Day != nil {
			if err := service.SelectDay(*req.Day); err != nil {
				return toHTTPError(err)
			}
		}
		if req.Night != nil {
			service.SetNight(*req.Night)
		}
		return sendView(c, service)
	})

	v1.Put("/location", func(c *fiber.Ctx) error {
		var req locationRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}

		var (
			loc weather.LocationRecord
			err error
		)
		if req.ID != "" {
			loc, err = service.ChangeLocationByID(c.UserContext(), req.ID)
		} else {
			loc, err = service.ChangeLocationByName(c.UserContext(), req.Name)
		}
		if err != nil {
			return toHTTPError(err)
		}

		return c.JSON(fiber.Map{
			"location": summarise(loc),
			"message":  "Your location has been changed to " + loc.DisplayName,
		})
	})

	v1.Post("/location/locate", func(c *fiber.Ctx) error {
		var req locateRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}

		loc, err := service.Locate(c.UserContext(), *req.Latitude, *req.Longitude)
		if err != nil {
			return toHTTPError(err)
		}

		return c.JSON(fiber.Map{
			"location": summarise(loc),
			"message":  "GPS call succesful! Your location is now " + loc.DisplayName,
		})
	})

	v1.Get("/sites", func(c *fiber.Ctx) error {
		if !service.HasSites() {
			if err := service.LoadSites(c.UserContext()); err != nil {
				return toHTTPError(err)
			}
		}
		return c.JSON(fiber.Map{
			"sites": service.SearchSites(c.Query("q")),
		})
	})

	v1.Get("/favourites", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"favourites": summariseAll(service.Snapshot().Favourites),
		})
	})

	v1.Post("/favourites", func(c *fiber.Ctx) error {
		var req favouriteRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}

		favs, err := service.AddFavourite(c.UserContext(), req.Alias)
		if err != nil {
			return toHTTPError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"favourites": summariseAll(favs),
		})
	})

	v1.Delete("/favourites/:index", func(c *fiber.Ctx) error {
		index, err := c.ParamsInt("index")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "index must be an integer")
		}

		favs, err := service.RemoveFavourite(c.UserContext(), index)
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(fiber.Map{
			"favourites": summariseAll(favs),
			"message":    "Favourite removed.",
		})
	})

	v1.Post("/favourites/:index/select", func(c *fiber.Ctx) error {
		index, err := c.ParamsInt("index")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "index must be an integer")
		}

		outcome, err := service.SelectFavourite(c.UserContext(), index)
		if err != nil {
			return toHTTPError(err)
		}

		resp := fiber.Map{
			"location": summarise(outcome.Location),
			"live":     outcome.Live,
		}
		if !outcome.Live {
			resp["message"] = msgCachedUsed
		}
		return c.JSON(resp)
	})

	v1.Get("/settings", func(c *fiber.Ctx) error {
		return c.JSON(service.Snapshot().Settings)
	})

	v1.Put("/settings/:name", func(c *fiber.Ctx) error {
		var req settingRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}

		settings, err := service.SetSetting(c.UserContext(), c.Params("name"), *req.Value)
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(settings)
	})

	v1.Post("/settings/:name/toggle", func(c *fiber.Ctx) error {
		settings, err := service.ToggleSetting(c.UserContext(), c.Params("name"))
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(settings)
	})
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// toHTTPError maps domain errors onto status codes and user-facing messages.
func toHTTPError(err error) error {
	var dup *weather.DuplicateFavouriteError

	switch {
	case errors.As(err, &dup):
		return fiber.NewError(fiber.StatusConflict, dup.Error())
	case errors.Is(err, weather.ErrAlreadySelected):
		return fiber.NewError(fiber.StatusConflict, msgAlreadyActive)
	case errors.Is(err, weather.ErrNoActiveLocation):
		return fiber.NewError(fiber.StatusPreconditionFailed, msgNoLocation)
	case errors.Is(err, weather.ErrIndexOutOfRange), errors.Is(err, weather.ErrUnknownSetting):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, weather.ErrLocationNotFound):
		return fiber.NewError(fiber.StatusNotFound, msgNotFound)
	case errors.Is(err, weather.ErrConnectivity):
		return fiber.NewError(fiber.StatusServiceUnavailable, msgOffline)
	case errors.Is(err, weather.ErrProviderFetch):
		return fiber.NewError(fiber.StatusBadGateway, msgProvider)
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}

func sendView(c *fiber.Ctx, service *weather.Service) error {
	view, err := render.FromSession(service.Snapshot(), service.Now())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(view)
}

// bindJSON parses and validates the request body.
func bindJSON(c *fiber.Ctx, v any) error {
	if err := c.BodyParser(v); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(v); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

type forecastQuery struct {
	Format string `validate:"oneof=json text"`
}

type selectionRequest struct {
	Day   *int  `json:"day" validate:"omitempty,gte=0"`
	Night *bool `json:"night"`
}

type locationRequest struct {
	Name string `json:"name" validate:"required_without=ID"`
	ID   string `json:"id" validate:"omitempty,numeric"`
}

type locateRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

type favouriteRequest struct {
	Alias string `json:"alias" validate:"max=64"`
}

type settingRequest struct {
	Value *bool `json:"value" validate:"required"`
}

// locationSummary is a LocationRecord without its forecast.
type locationSummary struct {
	Index         int    `json:"index"`
	Label         string `json:"label"`
	DisplayName   string `json:"displayName"`
	FavouriteName string `json:"favouriteName"`
	ProviderID    string `json:"providerId"`
	Days          int    `json:"days"`
}

func summarise(l weather.LocationRecord) locationSummary {
	return locationSummary{
		Label:         l.Label(),
		DisplayName:   l.DisplayName,
		FavouriteName: l.FavouriteName,
		ProviderID:    l.ProviderID,
		Days:          len(l.ForecastDays),
	}
}

func summariseAll(favs []weather.LocationRecord) []locationSummary {
	out := make([]locationSummary, len(favs))
	for i, f := range favs {
		out[i] = summarise(f)
		out[i].Index = i
	}
	return out
}

