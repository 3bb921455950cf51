package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustoms(t *testing.T) {
	tests := []struct {
		name  string
		cost  float64
		rate  float64
		duty  float64
		vat   float64
		total float64
	}{
		{name: "textile", cost: 10000, rate: 10, duty: 1000, vat: 2200, total: 3950},
		{name: "electronics", cost: 5000, rate: 0, duty: 0, vat: 1000, total: 1750},
		{name: "leather shoes", cost: 1000, rate: 12.5, duty: 125, vat: 225, total: 1100},
		{name: "furniture", cost: 250.5, rate: 20, duty: 50.1, vat: 60.12, total: 860.22},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est, err := Customs(tt.cost, tt.rate)
			require.NoError(t, err)
			assert.InDelta(t, tt.duty, est.Duty, 0.001)
			assert.InDelta(t, tt.vat, est.VAT, 0.001)
			assert.Equal(t, CustomsFee, est.Fee)
			assert.InDelta(t, tt.total, est.Total, 0.001)
			assert.Equal(t, tt.cost, est.Cost)
		})
	}
}

func TestCustoms_Invalid(t *testing.T) {
	for _, cost := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := Customs(cost, 10)
		assert.ErrorIs(t, err, ErrInvalidCost)
	}

	for _, rate := range []float64{-5, 7, 12, 100} {
		_, err := Customs(1000, rate)
		assert.ErrorIs(t, err, ErrInvalidRate)
	}
}

func TestTariffs(t *testing.T) {
	list := Tariffs()
	require.Len(t, list, 6)
	assert.Equal(t, 12.5, list[3].Rate)

	list[0].Rate = 99
	assert.Equal(t, 0.0, Tariffs()[0].Rate)
	assert.False(t, IsOfferedRate(99))
}

func TestDescribeDelivery(t *testing.T) {
	assert.Equal(t,
		"Расчет доставки: Страна: Китай, Транспорт: Авиа, Вес: 120кг, Объем: 1.5м³",
		DescribeDelivery(DeliveryRequest{CountryName: "Китай", Transport: "air", WeightKg: 120, VolumeM3: 1.5}))

	assert.Equal(t,
		"Расчет доставки: Страна: Не указана, Транспорт: Не указан, Вес: 40кг",
		DescribeDelivery(DeliveryRequest{Transport: "teleport", WeightKg: 40}))

	assert.Equal(t,
		"Расчет доставки: Страна: Турция, Транспорт: ЖД, Вес: 0.5кг",
		DescribeDelivery(DeliveryRequest{CountryName: "Турция", Transport: " RAIL ", WeightKg: 0.5}))
}

func TestDescribeCustoms(t *testing.T) {
	assert.Equal(t,
		"Расчет таможни: Стоимость товара: $10000, Ставка пошлины: 10%",
		DescribeCustoms(CustomsRequest{Cost: 10000, Rate: 10}))

	est, err := Customs(10000, 10)
	require.NoError(t, err)
	assert.Equal(t,
		"Расчет таможни: Стоимость товара: $10000, Ставка пошлины: 10%, Итого платежей: 3\u00a0950\u00a0$, Описание: Куртки",
		DescribeCustoms(CustomsRequest{Cost: 10000, Rate: 10, Estimate: est, Description: " Куртки "}))

	assert.Equal(t,
		"Расчет таможни: Стоимость товара: $800, Ставка пошлины: 12.5%",
		DescribeCustoms(CustomsRequest{Cost: 800, Rate: 12.5}))
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "0\u00a0$", FormatUSD(0))
	assert.Equal(t, "950\u00a0$", FormatUSD(949.6))
	assert.Equal(t, "1\u00a0234\u00a0567\u00a0$", FormatUSD(1234567))
	assert.Equal(t, "-12\u00a0000\u00a0$", FormatUSD(-12000))
}

func TestTransportLabel(t *testing.T) {
	label, ok := TransportLabel("sea")
	assert.True(t, ok)
	assert.Equal(t, "Море", label)

	_, ok = TransportLabel("")
	assert.False(t, ok)
}
