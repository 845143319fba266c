package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/painel/internal/adapters/sheets"
)

// sampleData is a small workbook with every sheet the default
// configuration reads, for trying the dashboard with source=workbook.
var sampleData = map[string][][]string{
	"PEX": {
		{"Unidade", "Quarter", "Cluster", "Consultor", "VVR", "MAC", "Endividamento", "NPS", "Margem", "e-NPS", "Conformidade", "Bônus", "Pontuação Total"},
		{"Curitiba", "1", "Norte", "Ana", "18", "9", "8", "14", "12", "7", "10", "2", "80"},
		{"Londrina", "1", "Norte", "Bruno", "15", "8", "9", "10", "11", "6", "9", "1", "69"},
		{"Maringá", "1", "Sul", "Ana", "20", "10", "7", "12", "13", "8", "10", "3", "83"},
		{"Cascavel", "1", "Sul", "Carla", "12", "6", "6", "9", "8", "5", "7", "0", "53"},
		{"Curitiba", "2", "Norte", "Ana", "19", "9", "9", "15", "12", "8", "10", "2", "84"},
		{"Londrina", "2", "Norte", "Bruno", "16", "7", "9", "11", "10", "7", "9", "1", "70"},
		{"Maringá", "2", "Sul", "Ana", "17", "10", "8", "12", "12", "7", "9", "2", "77"},
		{"Cascavel", "2", "Sul", "Carla", "14", "7", "7", "10", "9", "6", "8", "1", "62"},
	},
	"VENDAS": {
		{"Data", "Unidade", "Consultor", "Produto", "Valor", "Quantidade"},
		{"05/01/2024", "Curitiba", "Ana", "Graduação", "R$ 1.200,00", "1"},
		{"18/01/2024", "Londrina", "Bruno", "Pós", "R$ 2.450,50", "2"},
		{"02/02/2024", "Maringá", "Ana", "Graduação", "R$ 980,00", "1"},
		{"15/02/2024", "Cascavel", "Carla", "Técnico", "R$ 640,00", "1"},
		{"03/03/2024", "Curitiba", "Ana", "Pós", "R$ 3.100,00", "2"},
		{"21/03/2024", "Londrina", "Bruno", "Graduação", "R$ 1.150,00", "1"},
	},
	"METAS": {
		{"INDICADOR", "1º TRI", "2º TRI", "3º TRI", "4º TRI"},
		{"VVR", "90", "92", "95", "95"},
		{"NPS", "70", "72", "75", "75"},
	},
	"PESOS": {
		{"INDICADOR", "1º TRI", "2º TRI", "3º TRI", "4º TRI"},
		{"VVR", "2", "2", "2", "2"},
		{"MAC", "1", "1", "1", "1"},
		{"Endividamento", "1", "1", "1", "1"},
		{"NPS", "1,5", "1,5", "1,5", "1,5"},
		{"Margem", "1,5", "1,5", "1,5", "1,5"},
		{"e-NPS", "1", "1", "1", "1"},
		{"Conformidade", "2", "2", "2", "2"},
	},
	"BONUS": {
		{"CRITERIO", "PONTOS"},
		{"Meta batida", "3"},
	},
	"CLUSTERS": {
		{"UNIDADE", "CLUSTER"},
		{"Curitiba", "Norte"},
		{"Londrina", "Norte"},
		{"Maringá", "Sul"},
		{"Cascavel", "Sul"},
	},
	"CONSULTORES": {
		{"UNIDADE", "CONSULTOR"},
		{"Curitiba", "Ana"},
		{"Londrina", "Bruno"},
		{"Maringá", "Ana"},
		{"Cascavel", "Carla"},
	},
	"METAS_VENDAS": {
		{"UNIDADE", "META"},
		{"Curitiba", "R$ 4.000,00"},
		{"Londrina", "R$ 3.500,00"},
		{"Maringá", "R$ 2.000,00"},
		{"Cascavel", "R$ 1.500,00"},
	},
}

func newSampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sample <path.xlsx>",
		Short: "Write a sample workbook usable with PAINEL_SOURCE=workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := sheets.CreateWorkbook(args[0], sampleData)
			if err != nil {
				return err
			}
			if err := wb.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", args[0])
			return nil
		},
	}
}
