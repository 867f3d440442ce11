// Command devtoken emite um JWT local para testar a API sem o serviço de identidade.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"gostockflow/internal/domain"
	"gostockflow/internal/pkg/token"
)

func main() {
	userID := flag.Int64("user", 1, "ID do usuário")
	role := flag.String("role", string(domain.RoleStaff), "papel: staff, manager, auditor ou admin")
	ttl := flag.Duration("ttl", time.Hour, "validade do token")
	flag.Parse()

	_ = godotenv.Load()
	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		log.Fatal("JWT_SECRET_KEY deve ser definida.")
	}
	parsed, ok := domain.ParseRole(*role)
	if !ok {
		log.Fatalf("papel desconhecido: %q", *role)
	}

	raw, err := token.NewService(secret, *ttl).GenerateToken(*userID, string(parsed))
	if err != nil {
		log.Fatalf("falha ao gerar token: %v", err)
	}
	fmt.Println(raw)
}
