// internal/app/bootstrap/views.go
package bootstrap

// Feature view packages register their template sets in init.
import (
	_ "github.com/dalemusser/hygienedash/internal/app/features/attendance/views"
	_ "github.com/dalemusser/hygienedash/internal/app/features/dashboard/views"
	_ "github.com/dalemusser/hygienedash/internal/app/features/login/views"
	_ "github.com/dalemusser/hygienedash/internal/app/features/register/views"
)
