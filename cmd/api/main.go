package main

import (
	"log"

	"github.com/joho/godotenv"
)

// @title PDV Supermercado API
// @version 1.0
// @description Motor de vendas e reconciliação de estoque: carrinho, checkout, devoluções, cupons e fidelidade.
// @BasePath /api/v1
func main() {
	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: Arquivo .env não encontrado: %v", err)
	}

	// Criar aplicação
	app, err := NewApp()
	if err != nil {
		log.Fatalf("Erro ao inicializar aplicação: %v", err)
	}

	// Iniciar o servidor
	if err := app.Start(); err != nil {
		log.Fatalf("Erro ao iniciar servidor: %v", err)
	}
}
