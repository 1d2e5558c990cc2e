package main

import "github.com/joho/godotenv"

func loadEnvFile(path string) error {
	return godotenv.Overload(path)
}
