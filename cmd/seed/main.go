// seed importa un catálogo de productos desde CSV al almacén PostgreSQL de un usuario.
//
// Uso: go run ./cmd/seed -user <uid> [-encoding windows-1252] productos.csv
// Columnas: nome;categoria;preco;custo;estoque;estoque_minimo (la primera fila es cabecera).
// Acepta coma decimal ("8,50"). Planillas exportadas por Excel suelen venir en Windows-1252.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/application/usecase"
	"github.com/jhoicas/Caja-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Caja-api/pkg/config"
	"github.com/jhoicas/Caja-api/pkg/logger"
)

func main() {
	userID := flag.String("user", "", "UID dueño del catálogo")
	encoding := flag.String("encoding", "utf-8", "utf-8 | windows-1252 | iso-8859-1")
	flag.Parse()
	if *userID == "" || flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed -user <uid> [-encoding windows-1252] productos.csv")
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := parseCSV(decodeReader(f, *encoding))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	ctx := context.Background()
	store, err := postgres.Open(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer store.Close()

	uc := usecase.NewProductUseCase(store.Products)
	created := 0
	for i, row := range rows {
		if _, err := uc.Create(ctx, *userID, row); err != nil {
			log.Warn().Err(err).Int("fila", i+2).Str("nome", row.Name).Msg("producto omitido")
			continue
		}
		created++
	}
	fmt.Printf("Importados %d de %d productos\n", created, len(rows))
}

func decodeReader(r io.Reader, encoding string) io.Reader {
	switch strings.ToLower(encoding) {
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder())
	case "iso-8859-1", "latin1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return r
	}
}

func parseCSV(r io.Reader) ([]dto.CreateProductRequest, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []dto.CreateProductRequest
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if line == 1 {
			continue
		}
		if len(rec) < 3 {
			return nil, fmt.Errorf("línea %d: se esperaban al menos nome;categoria;preco", line)
		}
		req := dto.CreateProductRequest{Name: strings.TrimSpace(rec[0]), Category: strings.TrimSpace(rec[1])}
		if req.Price, err = parseAmount(rec[2]); err != nil {
			return nil, fmt.Errorf("línea %d preco: %w", line, err)
		}
		if len(rec) > 3 {
			if req.CostPrice, err = parseAmount(rec[3]); err != nil {
				return nil, fmt.Errorf("línea %d custo: %w", line, err)
			}
		}
		if len(rec) > 4 {
			if req.Stock, err = parseInt(rec[4]); err != nil {
				return nil, fmt.Errorf("línea %d estoque: %w", line, err)
			}
		}
		if len(rec) > 5 {
			if req.MinStock, err = parseInt(rec[5]); err != nil {
				return nil, fmt.Errorf("línea %d estoque_minimo: %w", line, err)
			}
		}
		out = append(out, req)
	}
	return out, nil
}

// parseAmount acepta "1.234,50", "8,50" y "8.50".
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}

func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
