package assistant

import (
	"fmt"
	"strings"
	"time"

	"inventory-service/internal/analytics"
	"inventory-service/internal/models"
)

func buildQueryPrompt(items []models.InventoryItem, movements []models.StockMovement, question string) string {
	kpis := analytics.ComputeKPIs(items)

	summaries := make([]string, 0, len(items))
	for _, item := range items {
		summaries = append(summaries, fmt.Sprintf("%s (Cat: %s, Qty: %d, Prezzo: %s€)",
			item.Name, item.Category, item.Quantity, item.Price.StringFixed(2)))
	}

	var log strings.Builder
	for _, m := range analytics.RecentMovements(movements, recentMovementsInContext) {
		fmt.Fprintf(&log, "[%s] %s %dpz %s\n", m.Date.Time(nil).Format("02/01/2006"), m.Type, m.Quantity, m.ItemName)
	}

	return fmt.Sprintf(`Sei l'assistente virtuale intelligente di un magazzino (Warehouse AI).
Rispondi alla domanda dell'utente basandoti ESCLUSIVAMENTE sui dati forniti qui sotto.

DATI GENERALI:
- Totale Pezzi in stock: %d
- Valore Totale Stock: €%s

LISTA ARTICOLI (Snapshot):
%s

ULTIMI %d MOVIMENTI (Log):
%s
DOMANDA UTENTE: %q

ISTRUZIONI:
- Rispondi in italiano.
- Sii conciso e diretto.
- Se chiedono calcoli specifici non presenti nei dati generali, falli tu basandoti sulla lista articoli.
- Se l'utente chiede informazioni non presenti nei dati, dì gentilmente che non hai quell'informazione.
- Usa formattazione markdown (grassetto, elenchi) se utile.
`, kpis.TotalUnits, kpis.TotalValue.StringFixed(2), strings.Join(summaries, "; "),
		recentMovementsInContext, log.String(), question)
}

func buildPlanningPrompt(movements []models.StockMovement) string {
	outs := make([]models.StockMovement, 0, len(movements))
	for _, m := range movements {
		if m.Type == models.MovementOut {
			outs = append(outs, m)
		}
	}

	var sellers strings.Builder
	for _, t := range analytics.TopN(outs, topSellersInContext) {
		fmt.Fprintf(&sellers, "- %s: %d pezzi\n", t.Name, t.Quantity)
	}

	return fmt.Sprintf(`Agisci come un analista di produzione e vendite.
Dati di Vendita (Storico):
- Totale Pezzi Usciti: %d
- Top %d Articoli più venduti:
%s
Domanda: Se devo pianificare la produzione/riordino per il prossimo periodo, quali articoli devo privilegiare?
Dammi 3 punti elenco secchi e una breve conclusione sulla tendenza.
`, analytics.TotalUnits(outs), topSellersInContext, sellers.String())
}

func buildSeasonalityPrompt(report *analytics.YearlyReport) string {
	filterContext := "Generale"
	switch {
	case report.Category != "":
		filterContext = "Categoria: " + report.Category
	case report.Search != "":
		filterContext = "Filtro: " + report.Search
	}

	var summary strings.Builder
	for _, s := range report.Seasonality {
		fmt.Fprintf(&summary, "- %s: Picco a %s (%d pz)\n", s.Name, s.PeakLabel, s.PeakQuantity)
	}
	seasonality := summary.String()
	if seasonality == "" {
		seasonality = "Nessun dato rilevante trovato con i filtri correnti.\n"
	}

	year := report.Year
	if year == 0 {
		year = time.Now().Year()
	}

	return fmt.Sprintf(`Analizza i dati di vendita dell'anno %d (%s) per pianificare la produzione.

Top Prodotti (fino a %d) e Stagionalità rilevata:
%s
Totale volume annuo (selezione): %d pezzi.

Il tuo compito:
Agisci come un Supply Chain Manager Senior.
Analizza questi picchi e suggerisci quando iniziare ad accumulare scorte per i prodotti in esame.
Se i dati sono scarsi, dai consigli generali su come gestire la categoria in questione.
Sii sintetico, strategico e usa elenchi puntati.
`, year, filterContext, len(report.TopItems), seasonality, report.TotalUnits)
}

func buildDescriptionPrompt(name, category string) string {
	return fmt.Sprintf(`Scrivi una descrizione commerciale accattivante e tecnica (max 30 parole) per un prodotto di magazzino.
Nome: %s
Categoria: %s
Lingua: Italiano.`, name, category)
}

const imageAnalysisPrompt = `Analizza questa immagine di un prodotto commerciale.
Agisci come un magazziniere esperto e restituisci un oggetto JSON con questi campi in Italiano:
- name: Un nome breve e chiaro del prodotto.
- category: La categoria più appropriata (es. Elettronica, Abbigliamento, Casa, Accessori, Altro).
- description: Una descrizione tecnica ma sintetica (max 20 parole).`
