// token emite un JWT firmado con JWT_SECRET para un usuario y rol.
// La autenticación de usuarios vive fuera de esta API; esto sirve para operar y probar.
//
// Uso: go run ./cmd/token -user <uid> [-role caixa|admin] [-exp 480]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/Caja-api/pkg/config"
	"github.com/jhoicas/Caja-api/pkg/jwt"
)

func main() {
	userID := flag.String("user", "", "UID del usuario (espacio de nombres de sus documentos)")
	role := flag.String("role", "caixa", "caixa | admin")
	exp := flag.Int("exp", 0, "expiración en minutos (0 = JWT_EXPIRATION_MINUTES)")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "uso: token -user <uid> [-role caixa|admin] [-exp minutos]")
		os.Exit(2)
	}
	if *role != "caixa" && *role != "admin" {
		fmt.Fprintf(os.Stderr, "rol inválido %q\n", *role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	minutes := cfg.JWT.Expiration
	if *exp > 0 {
		minutes = *exp
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, *userID, *role, cfg.JWT.Issuer, minutes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
