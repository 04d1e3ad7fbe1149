package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/FuturFusion/compute-manager/internal/server/auth"
	"github.com/FuturFusion/compute-manager/internal/server/response"
	"github.com/FuturFusion/compute-manager/shared/api"
)

var migrationsCmd = APIEndpoint{
	Path: "migrations",

	Get: APIEndpointAction{Handler: migrationsGet, AccessHandler: allowPermission(auth.ObjectTypeServer, auth.EntitlementCanView)},
}

var migrationCmd = APIEndpoint{
	Path: "migrations/{uuid}",

	Get: APIEndpointAction{Handler: migrationGet, AccessHandler: allowPermission(auth.ObjectTypeServer, auth.EntitlementCanView)},
}

// swagger:operation GET /1.0/migrations migrations migrations_get
//
//	Get the migrations
//
//	Returns a list of resize migration records (URLs).
//
//	---
//	produces:
//	  - application/json
//	responses:
//	  "200":
//	    description: API migrations
//	    schema:
//	      type: object
//	      description: Sync response
//	      properties:
//	        type:
//	          type: string
//	          description: Response type
//	          example: sync
//	        status:
//	          type: string
//	          description: Status description
//	          example: Success
//	        status_code:
//	          type: integer
//	          description: Status code
//	          example: 200
//	        metadata:
//	          type: array
//	          description: List of migrations
//	          items:
//	            type: string
//	  "403":
//	    $ref: "#/responses/Forbidden"
//	  "500":
//	    $ref: "#/responses/InternalServerError"
func migrationsGet(d *Daemon, r *http.Request) response.Response {
	// Parse the recursion field.
	recursion, err := strconv.Atoi(r.FormValue("recursion"))
	if err != nil {
		recursion = 0
	}

	migrations, err := d.migrations.GetAll(r.Context())
	if err != nil {
		return response.SmartError(err)
	}

	if recursion > 0 {
		result := make([]api.Migration, 0, len(migrations))
		for _, mig := range migrations {
			result = append(result, mig.ToAPI())
		}

		return response.SyncResponse(true, result)
	}

	result := make([]string, 0, len(migrations))
	for _, mig := range migrations {
		result = append(result, fmt.Sprintf("/%s/migrations/%s", api.APIVersion, mig.UUID))
	}

	return response.SyncResponse(true, result)
}

// swagger:operation GET /1.0/migrations/{uuid} migrations migration_get
//
//	Get the migration
//
//	Gets a specific resize migration record.
//
//	---
//	produces:
//	  - application/json
//	responses:
//	  "200":
//	    description: Migration
//	    schema:
//	      type: object
//	      description: Sync response
//	      properties:
//	        type:
//	          type: string
//	          description: Response type
//	          example: sync
//	        status:
//	          type: string
//	          description: Status description
//	          example: Success
//	        status_code:
//	          type: integer
//	          description: Status code
//	          example: 200
//	        metadata:
//	          $ref: "#/definitions/Migration"
//	  "403":
//	    $ref: "#/responses/Forbidden"
//	  "404":
//	    $ref: "#/responses/NotFound"
//	  "500":
//	    $ref: "#/responses/InternalServerError"
func migrationGet(d *Daemon, r *http.Request) response.Response {
	migrationUUID, err := uuid.Parse(r.PathValue("uuid"))
	if err != nil {
		return response.BadRequest(fmt.Errorf("Failed to parse migration UUID: %w", err))
	}

	mig, err := d.migrations.GetByUUID(r.Context(), migrationUUID)
	if err != nil {
		return response.SmartError(err)
	}

	return response.SyncResponseETag(true, mig.ToAPI(), mig.ToAPI())
}
