package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"matrix:view-own",
		"tracking:view-own",
		"tracking:ingest",
	},
	"teacher": {
		"matrix:view",
		"grade:submit",
		"tracking:view",
		"tracking:ingest",
	},
	"admin": {
		"*", // everything
	},
}
